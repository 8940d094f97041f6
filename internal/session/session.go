// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps signed-in users in Valkey. The browser holds only an
// opaque id in a cookie; the payload, including the user's Google token,
// stays server side. Sessions slide: every read pushes the expiry out again.
// Each user's session ids are indexed so they can all be revoked at once.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storyboarder/internal/googleauth"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "sb_session"

	// DefaultTTL is the idle time after which a session expires.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "session:"

	// idLength is the byte length of the random session id.
	idLength = 32
)

// ErrGone is returned by Update when the session was destroyed or expired
// while the request was in flight.
var ErrGone = errors.New("session no longer exists")

// Data is the session payload: who is signed in and the OAuth token used
// for Google API calls.
type Data struct {
	UserID      uuid.UUID        `json:"user_id"`
	Email       string           `json:"email"`
	DisplayName string           `json:"display_name"`
	PictureURL  string           `json:"picture_url,omitempty"`
	Token       googleauth.Token `json:"token"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Expired reports whether the session can no longer reach Google: its
// last refresh failed.
func (d *Data) Expired() bool {
	return d.Token.Error != ""
}

// Store manages sessions in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store. secure sets the cookie's Secure flag
// and should be true behind TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{client: client, ttl: DefaultTTL, secure: secure}
}

func sessionKey(id string) string { return keyPrefix + id }

func userIndexKey(userID uuid.UUID) string { return keyPrefix + "user:" + userID.String() }

// Create stores a new session, adds it to the user's index and sets the
// cookie. Returns the session id.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}

	data.CreatedAt = time.Now()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	index := userIndexKey(data.UserID)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(id), payload, s.ttl)
		p.SAdd(ctx, index, id)
		p.Expire(ctx, index, s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	s.setCookie(w, id, int(s.ttl.Seconds()))
	return id, nil
}

// Get returns the session named by the request cookie and extends its
// expiry. Returns nil, nil when there is no cookie or the session is gone.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	payload, err := s.client.GetEx(ctx, sessionKey(cookie.Value), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

// Update rewrites the payload of an existing session, keeping its expiry.
// It never recreates a session that was destroyed meanwhile.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: no cookie")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	err = s.client.SetArgs(ctx, sessionKey(cookie.Value), payload, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err()
	if errors.Is(err, redis.Nil) {
		return ErrGone
	}
	if err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

// Destroy removes the current session and expires the cookie. A request
// without a cookie is not an error.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	s.setCookie(w, "", -1)

	payload, err := s.client.GetDel(ctx, sessionKey(cookie.Value)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err == nil {
		s.client.SRem(ctx, userIndexKey(data.UserID), cookie.Value)
	}
	return nil
}

// DestroyAll revokes every session of a user and returns how many existed.
func (s *Store) DestroyAll(ctx context.Context, userID uuid.UUID) (int, error) {
	index := userIndexKey(userID)
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return 0, fmt.Errorf("session index: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, index)

	// Index entries may outlive their sessions; count only live ones.
	removed, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("session destroy all: %w", err)
	}
	live := int(removed)
	if len(ids) > 0 {
		live-- // the index key itself
	}
	return live, nil
}

func (s *Store) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
