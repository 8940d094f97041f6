// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// StoryboardStatus is the generation state of a storyboard.
type StoryboardStatus string

const (
	StoryboardStatusDraft     StoryboardStatus = "draft"
	StoryboardStatusGenerated StoryboardStatus = "generated"
	StoryboardStatusFailed    StoryboardStatus = "failed"
)

// Asset is one generated artifact listed in a storyboard's manifest.
type Asset struct {
	Kind        string    `json:"kind"` // "presentation", "pdf"
	URL         string    `json:"url"`
	StorageKey  string    `json:"storage_key,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Storyboard is a generated short-video brief. The creative content lives
// in a side table (StructuredContent keyed by storyboard id); the external
// presentation is referenced by id and URL once generated.
type Storyboard struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	ClientID        *uuid.UUID       `json:"client_id,omitempty"`
	CreatorID       *uuid.UUID       `json:"creator_id,omitempty"`
	TemplateID      *uuid.UUID       `json:"template_id,omitempty"`
	Status          StoryboardStatus `json:"status"`
	OriginalContent *string          `json:"original_content,omitempty"`
	Platforms       []string         `json:"platforms"`
	Assets          []Asset          `json:"assets"`
	PresentationID  *string          `json:"presentation_id,omitempty"`
	PresentationURL *string          `json:"presentation_url,omitempty"`
	CreatedBy       *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Joined, read-only.
	ClientName  *string `json:"client_name,omitempty"`
	CreatorName *string `json:"creator_name,omitempty"`
}

// IsGenerated returns true once the presentation exists.
func (s *Storyboard) IsGenerated() bool {
	return s.Status == StoryboardStatusGenerated && s.PresentationID != nil
}
