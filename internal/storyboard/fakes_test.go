// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// fakes_test.go provides in-memory collaborators so the workflow can be
// tested without Postgres, Valkey or Google.
package storyboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storyboarder/internal/ai"
	"storyboarder/internal/googleauth"
	"storyboarder/internal/models"
	"storyboarder/internal/slides"
)

type memDrafts struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemDrafts() *memDrafts {
	return &memDrafts{items: make(map[string][]byte)}
}

func (m *memDrafts) Save(_ context.Context, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = data
	return nil
}

func (m *memDrafts) Update(_ context.Context, id string, v any) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	m.items[id] = data
	return true, nil
}

func (m *memDrafts) Load(_ context.Context, id string, v any) (bool, error) {
	m.mu.Lock()
	data, ok := m.items[id]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (m *memDrafts) Take(_ context.Context, id string, v any) (bool, error) {
	m.mu.Lock()
	data, ok := m.items[id]
	delete(m.items, id)
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (m *memDrafts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// hookedDrafts runs afterLoad once, between a Load and whatever the caller
// does next with the draft.
type hookedDrafts struct {
	*memDrafts
	afterLoad func()
}

func (h *hookedDrafts) Load(ctx context.Context, id string, v any) (bool, error) {
	ok, err := h.memDrafts.Load(ctx, id, v)
	if fn := h.afterLoad; fn != nil {
		h.afterLoad = nil
		fn()
	}
	return ok, err
}

type memTemplates struct {
	byID map[uuid.UUID]*models.Template
	def  *models.Template
}

func (m *memTemplates) FindByID(id uuid.UUID) (*models.Template, error) {
	return m.byID[id], nil
}

func (m *memTemplates) FindDefault() (*models.Template, error) {
	return m.def, nil
}

type memStoryboards struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*models.Storyboard
	createErr error
}

func newMemStoryboards() *memStoryboards {
	return &memStoryboards{items: make(map[uuid.UUID]*models.Storyboard)}
}

func (m *memStoryboards) Create(sb *models.Storyboard) (*models.Storyboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	cp := *sb
	cp.ID = uuid.New()
	m.items[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStoryboards) Update(sb *models.Storyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[sb.ID]; !ok {
		return errors.New("no rows")
	}
	cp := *sb
	m.items[sb.ID] = &cp
	return nil
}

func (m *memStoryboards) FindByID(id uuid.UUID) (*models.Storyboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sb, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *sb
	return &cp, nil
}

func (m *memStoryboards) SetPresentation(id uuid.UUID, presentationID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sb := m.items[id]
	sb.PresentationID = &presentationID
	sb.PresentationURL = &url
	sb.Status = models.StoryboardStatusGenerated
	return nil
}

func (m *memStoryboards) SetStatus(id uuid.UUID, status models.StoryboardStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].Status = status
	return nil
}

func (m *memStoryboards) SetAssets(id uuid.UUID, assets []models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].Assets = assets
	return nil
}

type memContents struct {
	mu        sync.Mutex
	items     map[uuid.UUID]models.StructuredContent
	upsertErr error
}

func newMemContents() *memContents {
	return &memContents{items: make(map[uuid.UUID]models.StructuredContent)}
}

func (m *memContents) Upsert(id uuid.UUID, c *models.StructuredContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.items[id] = *c
	return nil
}

func (m *memContents) FindByStoryboardID(id uuid.UUID) (*models.StructuredContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type memClients map[uuid.UUID]*models.Client

func (m memClients) FindByID(id uuid.UUID) (*models.Client, error) { return m[id], nil }

type memCreators map[uuid.UUID]*models.Creator

func (m memCreators) FindByID(id uuid.UUID) (*models.Creator, error) { return m[id], nil }

type fakeGenerator struct {
	content    *models.StructuredContent
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (*models.StructuredContent, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.content
	return &cp, nil
}

type fakeDecks struct {
	mu        sync.Mutex
	result    *slides.Result
	err       error
	exportErr error
	calls     int
	lastMeta  slides.Meta
	lastHook  string
}

func (f *fakeDecks) Generate(_ context.Context, _ googleauth.Token, c *models.StructuredContent, meta slides.Meta) (*slides.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastMeta = meta
	f.lastHook = c.Hook
	return f.result, f.err
}

func (f *fakeDecks) ExportPDF(_ context.Context, _ googleauth.Token, _ string) ([]byte, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return []byte("%PDF-1.7"), nil
}

type memArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (m *memArchive) Upload(_ context.Context, key, _ string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}

func (m *memArchive) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/archive/" + strings.TrimPrefix(key, "/") + "?sig=1", nil
}

type fakeModerator struct {
	result *ai.ModerationResult
	err    error
	texts  []string
}

func (f *fakeModerator) CheckPrompt(_ context.Context, text string) (*ai.ModerationResult, error) {
	f.texts = append(f.texts, text)
	return f.result, f.err
}
