// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storyboarder/internal/ai"
	"storyboarder/internal/apperr"
	"storyboarder/internal/editor"
	"storyboarder/internal/models"
	"storyboarder/internal/slides"
	"storyboarder/internal/storyboard"
)

// draftRequest is the body of POST /api/drafts.
type draftRequest struct {
	Brief      ai.Brief   `json:"brief"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
}

// draftResponse carries a draft and its editor document.
type draftResponse struct {
	*storyboard.Draft
	Document editor.Document `json:"document"`
}

// editResponse is returned after a document edit.
type editResponse struct {
	draftResponse
	Changed []string `json:"changed"`
}

// finalizeResponse is returned by POST /api/drafts/{id}/finalize.
type finalizeResponse struct {
	Storyboard *models.Storyboard `json:"storyboard"`
	Slides     *slides.Result     `json:"slides,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// DraftCreate generates structured content from a brief and opens a draft.
func (a *API) DraftCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var in draftRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := a.service.Draft(r.Context(), sess.UserID, in.Brief, in.TemplateID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.writeDraft(w, http.StatusCreated, d)
}

// DraftGet returns a draft and its editor document.
func (a *API) DraftGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	d, err := a.service.Get(r.Context(), chi.URLParam(r, "id"), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.writeDraft(w, http.StatusOK, d)
}

// DraftUpdateDocument applies an edited editor document to a draft and
// reports which content fields changed.
func (a *API) DraftUpdateDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var doc editor.Document
	if err := decodeJSON(w, r, &doc); err != nil {
		writeError(w, r, err)
		return
	}
	d, changed, err := a.service.ApplyEdit(r.Context(), chi.URLParam(r, "id"), sess.UserID, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if changed == nil {
		changed = []string{}
	}
	writeJSON(w, http.StatusOK, editResponse{
		draftResponse: draftResponse{Draft: d, Document: a.service.Document(d)},
		Changed:       changed,
	})
}

// DraftPreview renders the draft content as HTML.
func (a *API) DraftPreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	d, err := a.service.Get(r.Context(), chi.URLParam(r, "id"), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	html, err := a.service.Preview(d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

// DraftFinalize turns a draft into a storyboard and generates its
// presentation with the signed-in user's Google credentials. When
// generation fails after the storyboard row was written, the response
// carries both the failed storyboard and the error.
func (a *API) DraftFinalize(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var in storyboard.FinalizeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sb, result, err := a.service.Finalize(r.Context(), sess.Token, chi.URLParam(r, "id"), sess.UserID, in)
	if err != nil {
		if sb == nil {
			writeError(w, r, err)
			return
		}
		slog.Error("finalize failed", "storyboard", sb.ID, "error", err)
		writeJSON(w, apperr.HTTPStatus(err), finalizeResponse{Storyboard: sb, Error: apperr.PublicMessage(err)})
		return
	}
	writeJSON(w, http.StatusCreated, finalizeResponse{Storyboard: sb, Slides: result})
}

// DraftDelete discards a draft.
func (a *API) DraftDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := a.service.Discard(r.Context(), chi.URLParam(r, "id"), sess.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) writeDraft(w http.ResponseWriter, status int, d *storyboard.Draft) {
	writeJSON(w, status, draftResponse{Draft: d, Document: a.service.Document(d)})
}
