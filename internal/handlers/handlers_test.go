// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"storyboarder/internal/apperr"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantRedirect string
		hidden       string
	}{
		{"validation", apperr.Validation("Title is required."), http.StatusUnprocessableEntity, "", ""},
		{"unauthorized", apperr.Unauthorized("Session expired.", nil), http.StatusUnauthorized, "/auth/login", ""},
		{"no rows", fmt.Errorf("update client: %w", sql.ErrNoRows), http.StatusNotFound, "", ""},
		{"external", apperr.External("claude", errors.New("secret body")), http.StatusBadGateway, "", "secret body"},
		{"internal", errors.New("pq: relation missing"), http.StatusInternalServerError, "", "relation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error == "" {
				t.Error("missing error message")
			}
			if body.Redirect != tt.wantRedirect {
				t.Errorf("redirect = %q, want %q", body.Redirect, tt.wantRedirect)
			}
			if tt.hidden != "" && strings.Contains(body.Error, tt.hidden) {
				t.Errorf("message leaked %q: %s", tt.hidden, body.Error)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Nike"}`, false},
		{"empty", "", true},
		{"malformed", `{"name":`, true},
		{"too large", `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct{ Name string }
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := decodeJSON(httptest.NewRecorder(), req, &v)
			if tt.wantErr {
				if !apperr.Is(err, apperr.KindValidation) {
					t.Errorf("err = %v, want a validation error", err)
				}
				return
			}
			if err != nil || v.Name != "Nike" {
				t.Errorf("got %+v, %v", v, err)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	r := chi.NewRouter()
	var got error
	r.Get("/x/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, got = parseID(req, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/5f8c1a70-3b7e-4c1e-9d43-2a1f6f0e9b11", nil))
	if got != nil {
		t.Errorf("valid uuid: %v", got)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/42", nil))
	if !apperr.Is(got, apperr.KindValidation) {
		t.Errorf("invalid uuid: got %v, want validation error", got)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"limit=10", 10},
		{"limit=-3", 50},
		{"limit=abc", 50},
		{"limit=5000", 200},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		if got := queryInt(req, "limit", 50, 200); got != tt.want {
			t.Errorf("queryInt(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
