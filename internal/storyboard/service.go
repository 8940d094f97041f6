// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storyboard orchestrates storyboard creation: a brief becomes a
// prompt, the LLM turns it into structured content, the user edits that
// content as a draft, and finalizing the draft fills a presentation and
// persists the storyboard.
package storyboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storyboarder/internal/ai"
	"storyboarder/internal/editor"
	"storyboarder/internal/googleauth"
	"storyboarder/internal/models"
	"storyboarder/internal/slides"
)

// Templates resolves content templates.
type Templates interface {
	FindByID(id uuid.UUID) (*models.Template, error)
	FindDefault() (*models.Template, error)
}

// Storyboards persists storyboard rows.
type Storyboards interface {
	Create(sb *models.Storyboard) (*models.Storyboard, error)
	Update(sb *models.Storyboard) error
	FindByID(id uuid.UUID) (*models.Storyboard, error)
	SetPresentation(id uuid.UUID, presentationID, url string) error
	SetStatus(id uuid.UUID, status models.StoryboardStatus) error
	SetAssets(id uuid.UUID, assets []models.Asset) error
}

// Contents persists the structured content of a storyboard.
type Contents interface {
	Upsert(storyboardID uuid.UUID, c *models.StructuredContent) error
	FindByStoryboardID(storyboardID uuid.UUID) (*models.StructuredContent, error)
}

// Clients looks up clients by id.
type Clients interface {
	FindByID(id uuid.UUID) (*models.Client, error)
}

// Creators looks up creators by id.
type Creators interface {
	FindByID(id uuid.UUID) (*models.Creator, error)
}

// Drafts keeps drafts between requests. Take must be atomic: for a given
// id only one caller may ever get the value. Update only overwrites an
// existing draft and reports false when there is none.
type Drafts interface {
	Save(ctx context.Context, id string, v any) error
	Update(ctx context.Context, id string, v any) (bool, error)
	Load(ctx context.Context, id string, v any) (bool, error)
	Take(ctx context.Context, id string, v any) (bool, error)
	Delete(ctx context.Context, id string) error
}

// ContentGenerator turns a prompt into structured content.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (*models.StructuredContent, error)
}

// DeckGenerator creates and exports presentations.
type DeckGenerator interface {
	Generate(ctx context.Context, tok googleauth.Token, content *models.StructuredContent, meta slides.Meta) (*slides.Result, error)
	ExportPDF(ctx context.Context, tok googleauth.Token, presentationID string) ([]byte, error)
}

// Moderator screens brief text before it is sent to the LLM.
type Moderator interface {
	CheckPrompt(ctx context.Context, text string) (*ai.ModerationResult, error)
}

// Archive stores exported files.
type Archive interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Deps lists the collaborators of a Service. Archive may be nil, in which
// case PDF export is skipped. Moderator may be nil. Codec defaults to
// editor.DefaultCodec.
type Deps struct {
	Templates   Templates
	Storyboards Storyboards
	Contents    Contents
	Clients     Clients
	Creators    Creators
	Drafts      Drafts
	Generator   ContentGenerator
	Decks       DeckGenerator
	Archive     Archive
	Moderator   Moderator
	Codec       *editor.Codec
}

// Service implements the storyboard workflow.
type Service struct {
	templates   Templates
	storyboards Storyboards
	contents    Contents
	clients     Clients
	creators    Creators
	drafts      Drafts
	generator   ContentGenerator
	decks       DeckGenerator
	archive     Archive
	moderator   Moderator
	codec       *editor.Codec
	now         func() time.Time
}

// New creates a Service.
func New(d Deps) *Service {
	codec := d.Codec
	if codec == nil {
		codec = editor.DefaultCodec
	}
	return &Service{
		templates:   d.Templates,
		storyboards: d.Storyboards,
		contents:    d.Contents,
		clients:     d.Clients,
		creators:    d.Creators,
		drafts:      d.Drafts,
		generator:   d.Generator,
		decks:       d.Decks,
		archive:     d.Archive,
		moderator:   d.Moderator,
		codec:       codec,
		now:         time.Now,
	}
}

// Codec returns the transcoder used for drafts.
func (s *Service) Codec() *editor.Codec {
	return s.codec
}
