// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"storyboarder/internal/googleauth"
	"storyboarder/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"

	// LoginPath is where an unauthenticated client is sent to sign in.
	LoginPath = "/auth/login"
)

// SessionStore is the part of the session store the middleware needs.
type SessionStore interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
}

// TokenRefresher renews an OAuth token close to expiry.
type TokenRefresher interface {
	Fresh(ctx context.Context, tok googleauth.Token, now time.Time) (googleauth.Token, bool, error)
}

// LoadSession retrieves the session from Valkey and stores it in the
// request context. Downstream handlers can access it via SessionFromCtx().
// It does not enforce authentication.
func LoadSession(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth answers 401 with a sign-in redirect hint when there is no
// session or the session's token can no longer be refreshed.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil || sess.Expired() {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":    "Authentication required.",
				"redirect": LoginPath,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RefreshToken keeps the session's Google token usable. A token near expiry
// is refreshed and written back to the session. A failed refresh marks the
// session as errored, so this and later requests get 401 until the user
// signs in again. Must be applied after RequireAuth.
func RefreshToken(store SessionStore, refresher TokenRefresher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromCtx(r.Context())
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			tok, changed, err := refresher.Fresh(r.Context(), sess.Token, time.Now())
			if changed || tok.Error != sess.Token.Error {
				sess.Token = tok
				uerr := store.Update(r.Context(), r, sess)
				if errors.Is(uerr, session.ErrGone) {
					writeJSON(w, http.StatusUnauthorized, map[string]string{
						"error":    "You were signed out. Please sign in again.",
						"redirect": LoginPath,
					})
					return
				}
				if uerr != nil {
					slog.Error("session token update failed", "user", sess.UserID, "error", uerr)
				}
			}
			if err != nil {
				slog.Warn("google token refresh failed", "user", sess.UserID, "error", err)
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "Your session has expired. Please sign in again.",
					"redirect": LoginPath,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
