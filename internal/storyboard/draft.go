// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storyboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyboarder/internal/ai"
	"storyboarder/internal/apperr"
	"storyboarder/internal/editor"
	"storyboarder/internal/models"
)

// Draft is structured content being edited before it becomes a storyboard.
// StoryboardID is set when the draft was reopened from a saved storyboard.
type Draft struct {
	ID           string                    `json:"id"`
	UserID       uuid.UUID                 `json:"user_id"`
	Brief        ai.Brief                  `json:"brief"`
	Prompt       string                    `json:"prompt,omitempty"`
	TemplateID   *uuid.UUID                `json:"template_id,omitempty"`
	StoryboardID *uuid.UUID                `json:"storyboard_id,omitempty"`
	Content      *models.StructuredContent `json:"content"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// Document returns the draft content as an editor document.
func (s *Service) Document(d *Draft) editor.Document {
	return s.codec.Encode(d.Content)
}

// Preview renders the draft content as HTML.
func (s *Service) Preview(d *Draft) (string, error) {
	return s.codec.Preview(d.Content)
}

// Draft generates content for a brief and stores it as a new draft owned by
// userID. templateID selects the content template; nil uses the default
// template, or the built-in sections when no template exists.
func (s *Service) Draft(ctx context.Context, userID uuid.UUID, brief ai.Brief, templateID *uuid.UUID) (*Draft, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}
	if err := s.screen(ctx, brief); err != nil {
		return nil, err
	}

	tmpl, err := s.resolveTemplate(templateID)
	if err != nil {
		return nil, err
	}
	sections := models.DefaultSections
	var tmplID *uuid.UUID
	if tmpl != nil {
		sections = tmpl.Sections
		tmplID = &tmpl.ID
	}

	prompt := ai.BuildPrompt(brief, sections)
	content, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := &Draft{
		ID:         uuid.NewString(),
		UserID:     userID,
		Brief:      brief,
		Prompt:     prompt,
		TemplateID: tmplID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.drafts.Save(ctx, d.ID, d); err != nil {
		return nil, err
	}
	slog.Info("draft created", "draft", d.ID, "user", userID)
	return d, nil
}

// screen rejects a flagged brief. A moderation outage lets the brief through.
func (s *Service) screen(ctx context.Context, brief ai.Brief) error {
	if s.moderator == nil {
		return nil
	}
	res, err := s.moderator.CheckPrompt(ctx, brief.Text())
	if err != nil {
		slog.Warn("brief moderation failed, continuing", "error", err)
		return nil
	}
	if !res.Safe {
		slog.Info("brief flagged by moderation", "categories", res.Categories)
		return apperr.Validation(fmt.Sprintf("The brief was flagged for: %s. Please reformulate it.",
			strings.Join(res.Categories, ", ")))
	}
	return nil
}

func (s *Service) resolveTemplate(id *uuid.UUID) (*models.Template, error) {
	if id == nil {
		t, err := s.templates.FindDefault()
		if err != nil {
			return nil, fmt.Errorf("find default template: %w", err)
		}
		return t, nil
	}
	t, err := s.templates.FindByID(*id)
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}
	if t == nil {
		return nil, apperr.NotFound("Template not found.")
	}
	return t, nil
}

// Get returns a draft owned by userID. Drafts of other users are reported
// as not found.
func (s *Service) Get(ctx context.Context, draftID string, userID uuid.UUID) (*Draft, error) {
	var d Draft
	ok, err := s.drafts.Load(ctx, draftID, &d)
	if err != nil {
		return nil, err
	}
	if !ok || d.UserID != userID {
		return nil, apperr.NotFound("Draft not found or expired.")
	}
	return &d, nil
}

// ApplyEdit decodes an edited document into the draft content, saves the
// draft and returns the keys of the fields the edit changed.
func (s *Service) ApplyEdit(ctx context.Context, draftID string, userID uuid.UUID, doc editor.Document) (*Draft, []string, error) {
	if doc.Type != editor.TypeDoc {
		return nil, nil, apperr.Validation("Document must be of type \"doc\".")
	}
	d, err := s.Get(ctx, draftID, userID)
	if err != nil {
		return nil, nil, err
	}

	next := s.codec.Decode(doc)
	changed := editor.ChangedFields(d.Content, next)
	if len(changed) == 0 {
		return d, changed, nil
	}

	d.Content = next
	d.UpdatedAt = s.now()
	ok, err := s.drafts.Update(ctx, d.ID, d)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, apperr.NotFound("Draft not found or expired.")
	}
	slog.Debug("draft edited", "draft", d.ID, "changed", changed)
	return d, changed, nil
}

// Discard deletes a draft owned by userID.
func (s *Service) Discard(ctx context.Context, draftID string, userID uuid.UUID) error {
	if _, err := s.Get(ctx, draftID, userID); err != nil {
		return err
	}
	return s.drafts.Delete(ctx, draftID)
}

// Reopen loads the saved content of a storyboard into a new draft so it can
// be edited and regenerated.
func (s *Service) Reopen(ctx context.Context, userID, storyboardID uuid.UUID) (*Draft, error) {
	sb, err := s.storyboards.FindByID(storyboardID)
	if err != nil {
		return nil, fmt.Errorf("find storyboard: %w", err)
	}
	if sb == nil {
		return nil, apperr.NotFound("Storyboard not found.")
	}
	content, err := s.contents.FindByStoryboardID(storyboardID)
	if err != nil {
		return nil, fmt.Errorf("find storyboard content: %w", err)
	}
	if content == nil {
		return nil, apperr.NotFound("Storyboard has no saved content.")
	}

	brief := ai.Brief{Platforms: sb.Platforms}
	if sb.ClientName != nil {
		brief.Client = *sb.ClientName
	}

	now := s.now()
	d := &Draft{
		ID:           uuid.NewString(),
		UserID:       userID,
		Brief:        brief,
		TemplateID:   sb.TemplateID,
		StoryboardID: &sb.ID,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if sb.OriginalContent != nil {
		d.Prompt = *sb.OriginalContent
	}
	if err := s.drafts.Save(ctx, d.ID, d); err != nil {
		return nil, err
	}
	slog.Info("storyboard reopened", "storyboard", storyboardID, "draft", d.ID)
	return d, nil
}
