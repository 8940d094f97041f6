// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storyboarder/internal/apperr"
	"storyboarder/internal/models"
	"storyboarder/internal/storyboard"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// storyboardResponse is a storyboard with its structured content.
type storyboardResponse struct {
	*models.Storyboard
	Content *models.StructuredContent `json:"content,omitempty"`
}

// StoryboardsList returns storyboards newest first, paged by the limit and
// offset query parameters.
func (a *API) StoryboardsList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize, maxPageSize)
	if limit == 0 {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0, 1<<31-1)

	list, err := a.storyboardStore.List(limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Storyboard{}
	}
	writeJSON(w, http.StatusOK, list)
}

// StoryboardGet returns a storyboard and its content.
func (a *API) StoryboardGet(w http.ResponseWriter, r *http.Request) {
	sb, ok := a.findStoryboard(w, r)
	if !ok {
		return
	}
	content, err := a.contentStore.FindByStoryboardID(sb.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storyboardResponse{Storyboard: sb, Content: content})
}

// StoryboardDelete removes a storyboard and, by cascade, its content.
// The presentation in the document platform is left untouched.
func (a *API) StoryboardDelete(w http.ResponseWriter, r *http.Request) {
	sb, ok := a.findStoryboard(w, r)
	if !ok {
		return
	}
	if err := a.storyboardStore.Delete(sb.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StoryboardEdit reopens a saved storyboard as a new draft.
func (a *API) StoryboardEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := a.service.Reopen(r.Context(), sess.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.writeDraft(w, http.StatusCreated, d)
}

// StoryboardAsset redirects to a short-lived download link for an asset.
func (a *API) StoryboardAsset(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	kind := chi.URLParam(r, "kind")
	if kind != storyboard.AssetPresentation && kind != storyboard.AssetPDF {
		writeError(w, r, apperr.NotFound("Asset not found."))
		return
	}
	url, err := a.service.DownloadURL(r.Context(), id, kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (a *API) findStoryboard(w http.ResponseWriter, r *http.Request) (*models.Storyboard, bool) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	sb, err := a.storyboardStore.FindByID(id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if sb == nil {
		writeError(w, r, apperr.NotFound("Storyboard not found."))
		return nil, false
	}
	return sb, true
}
