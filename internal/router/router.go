// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// storyboarder API. Routes are split into the sign-in flow under /auth and
// the authenticated JSON API under /api.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"storyboarder/internal/handlers"
	"storyboarder/internal/middleware"
)

// Options holds everything the router wires together. Limiter may be nil to
// disable rate limiting of the generation endpoints.
type Options struct {
	Sessions  middleware.SessionStore
	Refresher middleware.TokenRefresher
	Auth      *handlers.Auth
	API       *handlers.API
	Limiter   *middleware.RateLimiter
	Secure    bool
	Origin    string // public origin accepted on state-changing requests; empty = any
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(opts.Secure))
	r.Use(middleware.LoadSession(opts.Sessions))
	r.Use(middleware.Logger)

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	csrf := middleware.NewCSRF(opts.Secure, opts.Origin)
	limit := func(h http.HandlerFunc) http.Handler {
		if opts.Limiter == nil {
			return h
		}
		return opts.Limiter.Middleware(h)
	}

	r.Route("/auth", func(r chi.Router) {
		// The OAuth round trip is protected by the state cookie.
		r.Get("/login", opts.Auth.Login)
		r.Get("/callback", opts.Auth.Callback)

		r.Group(func(r chi.Router) {
			r.Use(csrf)
			r.Post("/logout", opts.Auth.Logout)
			r.With(middleware.RequireAuth).Get("/me", opts.Auth.Me)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(csrf)
		r.Use(middleware.RefreshToken(opts.Sessions, opts.Refresher))

		api := opts.API
		r.Get("/dashboard", api.Dashboard)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", api.ClientsList)
			r.Post("/", api.ClientCreate)
			r.Get("/{id}", api.ClientGet)
			r.Put("/{id}", api.ClientUpdate)
			r.Delete("/{id}", api.ClientDelete)
			r.Get("/{id}/storyboards", api.ClientStoryboards)
		})

		r.Route("/creators", func(r chi.Router) {
			r.Get("/", api.CreatorsList)
			r.Post("/", api.CreatorCreate)
			r.Get("/{id}", api.CreatorGet)
			r.Put("/{id}", api.CreatorUpdate)
			r.Delete("/{id}", api.CreatorDelete)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", api.TemplatesList)
			r.Post("/", api.TemplateCreate)
			r.Get("/{id}", api.TemplateGet)
			r.Put("/{id}", api.TemplateUpdate)
			r.Delete("/{id}", api.TemplateDelete)
			r.Post("/{id}/default", api.TemplateSetDefault)
		})

		r.Route("/storyboards", func(r chi.Router) {
			r.Get("/", api.StoryboardsList)
			r.Get("/{id}", api.StoryboardGet)
			r.Delete("/{id}", api.StoryboardDelete)
			r.Get("/{id}/edit", api.StoryboardEdit)
			r.Get("/{id}/assets/{kind}", api.StoryboardAsset)
		})

		// Drafts call the LLM and the document platform; both are rate limited.
		r.Route("/drafts", func(r chi.Router) {
			r.Method(http.MethodPost, "/", limit(api.DraftCreate))
			r.Get("/{id}", api.DraftGet)
			r.Put("/{id}/document", api.DraftUpdateDocument)
			r.Get("/{id}/preview", api.DraftPreview)
			r.Method(http.MethodPost, "/{id}/finalize", limit(api.DraftFinalize))
			r.Delete("/{id}", api.DraftDelete)
		})

		r.Get("/ai/provider", api.AIProvider)
		r.Put("/ai/provider", api.AISetProvider)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
