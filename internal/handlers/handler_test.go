// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"storyboarder/internal/ai"
	"storyboarder/internal/cache"
	"storyboarder/internal/database"
	"storyboarder/internal/googleauth"
	"storyboarder/internal/middleware"
	"storyboarder/internal/session"
	"storyboarder/internal/slides"
	"storyboarder/internal/store"
	"storyboarder/internal/storyboard"
)

// fakeProvider implements ai.Provider with a canned response.
type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, _ ai.Request) (string, error) {
	f.calls++
	return f.response, f.err
}

// fakePlatform implements slides.Platform in memory.
type fakePlatform struct {
	mu      sync.Mutex
	copyErr error
	copies  int
	batches int
}

func (f *fakePlatform) CopyFile(_ context.Context, _ googleauth.Token, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copyErr != nil {
		return "", f.copyErr
	}
	f.copies++
	return fmt.Sprintf("pres-%d", f.copies), nil
}

func (f *fakePlatform) BatchReplace(_ context.Context, _ googleauth.Token, _ string, _ []slides.Replacement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	return nil
}

func (f *fakePlatform) Export(_ context.Context, _ googleauth.Token, id, _ string) ([]byte, error) {
	return []byte("%PDF-" + id), nil
}

// contentJSON is a complete, valid LLM answer.
const contentJSON = `{
  "objective": "Lanzar las nuevas zapatillas",
  "tone": "Enérgico",
  "valueProp1": "Amortiguación",
  "valueProp2": "Diseño",
  "hook": "¿Listo para correr?",
  "description": "Un corredor al amanecer",
  "cta": "Compra ya",
  "scene1Script": "s1", "scene1Visual": "v1", "scene1Sound": "a1",
  "scene2Script": "s2", "scene2Visual": "v2", "scene2Sound": "a2",
  "scene3Script": "s3", "scene3Visual": "v3", "scene3Sound": "a3",
  "scene4Script": "s4", "scene4Visual": "v4", "scene4Sound": "a4"
}`

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "storyboarder")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "storyboarder")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "draft:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})
	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB       *sql.DB
	API      *API
	Sessions *session.Store
	Provider *fakeProvider
	Registry *ai.Registry
	Platform *fakePlatform
	Session  *session.Data
	Router   chi.Router
}

// newTestEnv wires the API against the test database and Valkey with a fake
// LLM provider and a fake slides platform, and signs in a test user.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	rdb := testValkeyClient(t)

	provider := &fakeProvider{response: contentJSON}
	registry := ai.NewRegistry("fake", nil)
	registry.Register("fake", provider)

	platform := &fakePlatform{}
	storyboardStore := store.NewStoryboardStore(db)
	contentStore := store.NewStoryboardContentStore(db)
	clientStore := store.NewClientStore(db)
	creatorStore := store.NewCreatorStore(db)
	templateStore := store.NewTemplateStore(db)

	svc := storyboard.New(storyboard.Deps{
		Templates:   templateStore,
		Storyboards: storyboardStore,
		Contents:    contentStore,
		Clients:     clientStore,
		Creators:    creatorStore,
		Drafts:      cache.NewDraftCache(rdb, time.Hour),
		Generator:   ai.NewGenerator(registry, 0.7, 4000),
		Decks:       slides.NewGenerator(platform, "tmpl-src"),
		Moderator:   registry,
	})

	email := "handler-" + uuid.NewString()[:8] + "@storyboarder.local"
	user, err := store.NewUserStore(db).Upsert(email, "Handler Test", nil)
	if err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM storyboards WHERE created_by = $1", user.ID)
		db.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})

	api := NewAPI(clientStore, creatorStore, templateStore, storyboardStore, contentStore, svc, registry, []AIProviderInfo{
		{Name: "fake", Label: "Fake", HasKey: true, Model: "fake-1", KeyEnvVar: "FAKE_API_KEY"},
	})

	env := &testEnv{
		DB:       db,
		API:      api,
		Sessions: session.NewStore(rdb, false),
		Provider: provider,
		Registry: registry,
		Platform: platform,
		Session: &session.Data{
			UserID:      user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Token:       googleauth.Token{AccessToken: "access", Expiry: time.Now().Add(time.Hour)},
			CreatedAt:   time.Now(),
		},
	}
	env.Router = env.routes()
	return env
}

// routes mounts the API the way the router does, minus auth and CSRF.
// Every request carries the test session.
func (e *testEnv) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.SessionKey, e.Session)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	a := e.API
	r.Get("/clients", a.ClientsList)
	r.Post("/clients", a.ClientCreate)
	r.Get("/clients/{id}", a.ClientGet)
	r.Put("/clients/{id}", a.ClientUpdate)
	r.Delete("/clients/{id}", a.ClientDelete)
	r.Get("/clients/{id}/storyboards", a.ClientStoryboards)
	r.Get("/creators", a.CreatorsList)
	r.Post("/creators", a.CreatorCreate)
	r.Get("/creators/{id}", a.CreatorGet)
	r.Put("/creators/{id}", a.CreatorUpdate)
	r.Delete("/creators/{id}", a.CreatorDelete)
	r.Get("/templates", a.TemplatesList)
	r.Post("/templates", a.TemplateCreate)
	r.Put("/templates/{id}", a.TemplateUpdate)
	r.Post("/templates/{id}/default", a.TemplateSetDefault)
	r.Delete("/templates/{id}", a.TemplateDelete)
	r.Get("/storyboards", a.StoryboardsList)
	r.Get("/storyboards/{id}", a.StoryboardGet)
	r.Delete("/storyboards/{id}", a.StoryboardDelete)
	r.Get("/storyboards/{id}/edit", a.StoryboardEdit)
	r.Get("/storyboards/{id}/assets/{kind}", a.StoryboardAsset)
	r.Post("/drafts", a.DraftCreate)
	r.Get("/drafts/{id}", a.DraftGet)
	r.Put("/drafts/{id}/document", a.DraftUpdateDocument)
	r.Get("/drafts/{id}/preview", a.DraftPreview)
	r.Post("/drafts/{id}/finalize", a.DraftFinalize)
	r.Delete("/drafts/{id}", a.DraftDelete)
	r.Get("/ai/provider", a.AIProvider)
	r.Put("/ai/provider", a.AISetProvider)
	r.Get("/dashboard", a.Dashboard)
	return r
}

// do sends a JSON request through the test router.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorder body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}
