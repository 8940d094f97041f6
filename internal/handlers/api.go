// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"storyboarder/internal/ai"
	"storyboarder/internal/apperr"
	"storyboarder/internal/middleware"
	"storyboarder/internal/session"
	"storyboarder/internal/store"
	"storyboarder/internal/storyboard"
)

// AIProviderInfo describes a configured AI provider. API keys are never
// exposed, only whether one is set.
type AIProviderInfo struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	HasKey    bool   `json:"has_key"`
	Model     string `json:"model"`
	KeyEnvVar string `json:"key_env_var"`
}

// API groups the JSON handlers behind authentication.
type API struct {
	clientStore     *store.ClientStore
	creatorStore    *store.CreatorStore
	templateStore   *store.TemplateStore
	storyboardStore *store.StoryboardStore
	contentStore    *store.StoryboardContentStore
	service         *storyboard.Service
	aiRegistry      *ai.Registry
	aiProviders     []AIProviderInfo
}

// NewAPI creates a new API handler group with the given dependencies.
func NewAPI(clientStore *store.ClientStore, creatorStore *store.CreatorStore, templateStore *store.TemplateStore, storyboardStore *store.StoryboardStore, contentStore *store.StoryboardContentStore, service *storyboard.Service, aiRegistry *ai.Registry, aiProviders []AIProviderInfo) *API {
	return &API{
		clientStore:     clientStore,
		creatorStore:    creatorStore,
		templateStore:   templateStore,
		storyboardStore: storyboardStore,
		contentStore:    contentStore,
		service:         service,
		aiRegistry:      aiRegistry,
		aiProviders:     aiProviders,
	}
}

// Dashboard returns record counts for the landing page.
func (a *API) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts := map[string]int{}
	for name, count := range map[string]func() (int, error){
		"clients":     a.clientStore.Count,
		"creators":    a.creatorStore.Count,
		"templates":   a.templateStore.Count,
		"storyboards": a.storyboardStore.Count,
	} {
		n, err := count()
		if err != nil {
			writeError(w, r, err)
			return
		}
		counts[name] = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
}

// currentSession returns the signed-in session or writes a 401.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Data, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, r, apperr.Unauthorized("Not signed in.", nil))
		return nil, false
	}
	return sess, true
}
