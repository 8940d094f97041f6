// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"storyboarder/internal/ai"
	"storyboarder/internal/apperr"
)

// providerResponse describes the AI providers and which one is active.
type providerResponse struct {
	Active    string           `json:"active"`
	Available []string         `json:"available"`
	Providers []AIProviderInfo `json:"providers"`
}

// AIProvider returns the active AI provider and the configured ones.
func (a *API) AIProvider(w http.ResponseWriter, r *http.Request) {
	a.writeProviders(w)
}

// AISetProvider switches the active AI provider at runtime. Only providers
// with an API key can be selected.
func (a *API) AISetProvider(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Provider string `json:"provider"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	name := strings.TrimSpace(in.Provider)
	if name == "" {
		writeError(w, r, apperr.Validation("No provider specified."))
		return
	}
	if err := a.aiRegistry.SetActive(name); err != nil {
		slog.Warn("failed to switch AI provider", "provider", name, "error", err)
		msg := fmt.Sprintf("Cannot switch to %q: provider not available (no API key configured).", name)
		if errors.Is(err, ai.ErrUnknownProvider) {
			msg = fmt.Sprintf("Unknown provider %q. Choose one of: %s.", name, strings.Join(ai.Supported(), ", "))
		}
		writeError(w, r, apperr.Validation(msg))
		return
	}
	slog.Info("ai provider switched", "provider", name)
	a.writeProviders(w)
}

func (a *API) writeProviders(w http.ResponseWriter) {
	providers := a.aiProviders
	if providers == nil {
		providers = []AIProviderInfo{}
	}
	writeJSON(w, http.StatusOK, providerResponse{
		Active:    a.aiRegistry.ActiveName(),
		Available: a.aiRegistry.Available(),
		Providers: providers,
	})
}
