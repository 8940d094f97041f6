// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"storyboarder/internal/apperr"
	"storyboarder/internal/googleauth"
	"storyboarder/internal/middleware"
	"storyboarder/internal/session"
	"storyboarder/internal/store"
)

const (
	// stateCookieName holds the OAuth state between login and callback.
	stateCookieName = "sb_oauth_state"
	stateMaxAge     = 600
)

// Auth groups the sign-in handlers.
type Auth struct {
	google     *googleauth.Client
	sessions   *session.Store
	userStore  *store.UserStore
	secure     bool
	afterLogin string
}

// NewAuth creates a new Auth handler group. afterLogin is where the browser
// lands after a successful sign-in.
func NewAuth(google *googleauth.Client, sessions *session.Store, userStore *store.UserStore, secure bool, afterLogin string) *Auth {
	if afterLogin == "" {
		afterLogin = "/"
	}
	return &Auth{
		google:     google,
		sessions:   sessions,
		userStore:  userStore,
		secure:     secure,
		afterLogin: afterLogin,
	}
}

// Login starts the OAuth flow: it stores a random state in a short-lived
// cookie and redirects to Google's consent screen.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   stateMaxAge,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.google.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the OAuth flow: it checks the state, exchanges the
// code, upserts the user and opens a session carrying the token.
func (a *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a.clearState(w)

	if e := q.Get("error"); e != "" {
		slog.Warn("oauth consent denied", "error", e)
		writeError(w, r, apperr.Unauthorized("Sign-in was cancelled.", nil))
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	state := q.Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		writeError(w, r, apperr.Unauthorized("Sign-in expired. Please try again.", nil))
		return
	}

	code := strings.TrimSpace(q.Get("code"))
	if code == "" {
		writeError(w, r, apperr.Validation("Missing authorization code."))
		return
	}

	tok, err := a.google.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	info, err := a.google.UserInfo(r.Context(), tok)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var picture *string
	if info.Picture != "" {
		picture = &info.Picture
	}
	user, err := a.userStore.Upsert(info.Email, info.Name, picture)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Token:       tok,
	}
	if user.PictureURL != nil {
		data.PictureURL = *user.PictureURL
	}
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user signed in", "user", user.ID, "email", user.Email)
	http.Redirect(w, r, a.afterLogin, http.StatusSeeOther)
}

// Logout destroys the session. With ?everywhere=1 every session of the
// signed-in user is revoked, on all devices.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}

	resp := map[string]any{"status": "signed_out"}
	if sess != nil && r.URL.Query().Get("everywhere") == "1" {
		n, err := a.sessions.DestroyAll(r.Context(), sess.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		slog.Info("user signed out everywhere", "user", sess.UserID, "sessions", n)
		resp["other_sessions"] = n
	}
	writeJSON(w, http.StatusOK, resp)
}

// meResponse describes the signed-in user.
type meResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PictureURL  string `json:"picture_url,omitempty"`
	CSRFToken   string `json:"csrf_token,omitempty"`
}

// Me returns the signed-in user and the CSRF token the dashboard must echo.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || sess.Expired() {
		writeError(w, r, apperr.Unauthorized("Not signed in.", nil))
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		UserID:      sess.UserID.String(),
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		PictureURL:  sess.PictureURL,
		CSRFToken:   middleware.CSRFTokenFromCtx(r.Context()),
	})
}

func (a *Auth) clearState(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
