// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the storyboarder API.
// Handlers are grouped by concern (auth, api) and receive their
// dependencies through the handler struct. Every response body is JSON.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storyboarder/internal/apperr"
)

// maxBodyBytes caps request bodies. Editor documents are the largest payload.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every failed request. Redirect is set when
// the client must sign in again.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError maps err to a status code and a user-facing message. Details
// of external and internal failures go to the log only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	// Update and SetDefault report a row deleted underneath the request this way.
	if errors.Is(err, sql.ErrNoRows) {
		err = apperr.NotFound("Record not found.")
	}
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "kind", apperr.KindOf(err), "error", err)
	}
	resp := errorResponse{Error: apperr.PublicMessage(err)}
	if status == http.StatusUnauthorized {
		resp.Redirect = "/auth/login"
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Validation("Request body is too large.")
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required.")
		default:
			return apperr.Validation("Request body is not valid JSON.")
		}
	}
	return nil
}

// parseID reads a UUID URL parameter.
func parseID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid id.")
	}
	return id, nil
}

// queryInt reads a non-negative integer query parameter, clamped to max.
func queryInt(r *http.Request, name string, fallback, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return fallback
	}
	if v > max {
		return max
	}
	return v
}
