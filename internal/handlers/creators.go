// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"storyboarder/internal/apperr"
	"storyboarder/internal/models"
	"storyboarder/internal/store"
)

// CreatorsList returns creators filtered by the status, platform, country
// and q query parameters and ordered by sort ("name", "newest", "content").
func (a *API) CreatorsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.CreatorFilter{
		Status:   models.CreatorStatus(q.Get("status")),
		Platform: q.Get("platform"),
		Country:  q.Get("country"),
		Search:   q.Get("q"),
		Sort:     q.Get("sort"),
	}
	if f.Status != "" && !f.Status.Valid() {
		writeError(w, r, apperr.Validation("Unknown creator status."))
		return
	}
	creators, err := a.creatorStore.List(f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if creators == nil {
		creators = []models.Creator{}
	}
	writeJSON(w, http.StatusOK, creators)
}

// CreatorGet returns a single creator.
func (a *API) CreatorGet(w http.ResponseWriter, r *http.Request) {
	c, ok := a.findCreator(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreatorCreate adds a creator.
func (a *API) CreatorCreate(w http.ResponseWriter, r *http.Request) {
	var in models.Creator
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateCreator(&in); msg != "" {
		writeError(w, r, apperr.Validation(msg))
		return
	}
	created, err := a.creatorStore.Create(&in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CreatorUpdate replaces the editable fields of a creator.
func (a *API) CreatorUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.findCreator(w, r)
	if !ok {
		return
	}
	var in models.Creator
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateCreator(&in); msg != "" {
		writeError(w, r, apperr.Validation(msg))
		return
	}
	in.ID = existing.ID
	if err := a.creatorStore.Update(&in); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := a.creatorStore.FindByID(in.ID)
	if err != nil || updated == nil {
		writeError(w, r, fmt.Errorf("reload creator: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CreatorDelete removes a creator.
func (a *API) CreatorDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := a.findCreator(w, r)
	if !ok {
		return
	}
	if err := a.creatorStore.Delete(c.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) findCreator(w http.ResponseWriter, r *http.Request) (*models.Creator, bool) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	c, err := a.creatorStore.FindByID(id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if c == nil {
		writeError(w, r, apperr.NotFound("Creator not found."))
		return nil, false
	}
	return c, true
}
