// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"storyboarder/internal/apperr"
	"storyboarder/internal/models"
)

// TemplatesList returns every content template, the default first.
func (a *API) TemplatesList(w http.ResponseWriter, r *http.Request) {
	list, err := a.templateStore.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Template{}
	}
	writeJSON(w, http.StatusOK, list)
}

// TemplateGet returns a single template.
func (a *API) TemplateGet(w http.ResponseWriter, r *http.Request) {
	t, ok := a.findTemplate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// TemplateCreate adds a template. is_default in the body is ignored; use
// TemplateSetDefault to change the default.
func (a *API) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	var in models.Template
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateTemplate(&in); msg != "" {
		writeError(w, r, apperr.Validation(msg))
		return
	}
	in.IsDefault = false
	created, err := a.templateStore.Create(&in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// TemplateUpdate replaces the name and sections of a template.
func (a *API) TemplateUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.findTemplate(w, r)
	if !ok {
		return
	}
	var in models.Template
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateTemplate(&in); msg != "" {
		writeError(w, r, apperr.Validation(msg))
		return
	}
	in.ID = existing.ID
	if err := a.templateStore.Update(&in); err != nil {
		writeError(w, r, err)
		return
	}
	a.writeTemplate(w, r, in.ID, http.StatusOK)
}

// TemplateSetDefault makes a template the default one.
func (a *API) TemplateSetDefault(w http.ResponseWriter, r *http.Request) {
	t, ok := a.findTemplate(w, r)
	if !ok {
		return
	}
	if err := a.templateStore.SetDefault(t.ID); err != nil {
		writeError(w, r, err)
		return
	}
	a.writeTemplate(w, r, t.ID, http.StatusOK)
}

// TemplateDelete removes a template. The default template cannot be deleted.
func (a *API) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := a.findTemplate(w, r)
	if !ok {
		return
	}
	if t.IsDefault {
		writeError(w, r, apperr.Conflict("The default template cannot be deleted.", nil))
		return
	}
	if err := a.templateStore.Delete(t.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) writeTemplate(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	t, err := a.templateStore.FindByID(id)
	if err != nil || t == nil {
		writeError(w, r, fmt.Errorf("reload template: %w", err))
		return
	}
	writeJSON(w, status, t)
}

func (a *API) findTemplate(w http.ResponseWriter, r *http.Request) (*models.Template, bool) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	t, err := a.templateStore.FindByID(id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if t == nil {
		writeError(w, r, apperr.NotFound("Template not found."))
		return nil, false
	}
	return t, true
}
