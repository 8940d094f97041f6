// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"storyboarder/internal/apperr"
	"storyboarder/internal/models"
)

// ClientsList returns every client ordered by name.
func (a *API) ClientsList(w http.ResponseWriter, r *http.Request) {
	clients, err := a.clientStore.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// ClientGet returns a single client.
func (a *API) ClientGet(w http.ResponseWriter, r *http.Request) {
	c, ok := a.findClient(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ClientCreate adds a client. Client names are unique; a duplicate is a conflict.
func (a *API) ClientCreate(w http.ResponseWriter, r *http.Request) {
	var in models.Client
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateClient(&in); msg != "" {
		writeError(w, r, apperr.Validation(msg))
		return
	}
	created, err := a.clientStore.Create(&in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ClientUpdate replaces the editable fields of a client.
func (a *API) ClientUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.findClient(w, r)
	if !ok {
		return
	}
	var in models.Client
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateClient(&in); msg != "" {
		writeError(w, r, apperr.Validation(msg))
		return
	}
	in.ID = existing.ID
	if err := a.clientStore.Update(&in); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := a.clientStore.FindByID(in.ID)
	if err != nil || updated == nil {
		writeError(w, r, fmt.Errorf("reload client: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ClientDelete removes a client. Its storyboards keep existing without a client.
func (a *API) ClientDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := a.findClient(w, r)
	if !ok {
		return
	}
	if err := a.clientStore.Delete(c.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClientStoryboards lists the storyboards made for a client.
func (a *API) ClientStoryboards(w http.ResponseWriter, r *http.Request) {
	c, ok := a.findClient(w, r)
	if !ok {
		return
	}
	list, err := a.storyboardStore.ListByClient(c.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) findClient(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	c, err := a.clientStore.FindByID(id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if c == nil {
		writeError(w, r, apperr.NotFound("Client not found."))
		return nil, false
	}
	return c, true
}
