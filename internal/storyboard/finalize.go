// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storyboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"storyboarder/internal/apperr"
	"storyboarder/internal/googleauth"
	"storyboarder/internal/models"
	"storyboarder/internal/slides"
	"storyboarder/internal/storage"
)

const (
	maxTitleLen = 300

	// AssetPresentation and AssetPDF are the asset kinds in a storyboard manifest.
	AssetPresentation = "presentation"
	AssetPDF          = "pdf"
)

// FinalizeInput is the storyboard metadata chosen when finalizing a draft.
type FinalizeInput struct {
	Title     string     `json:"title"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	CreatorID *uuid.UUID `json:"creator_id,omitempty"`
	Platforms []string   `json:"platforms"`
	ExportPDF bool       `json:"export_pdf"`
}

// Validate checks the input and returns the first problem found.
func (in *FinalizeInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperr.Validation("Title is required.")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return apperr.Validation("Title is too long (max 300 characters).")
	}
	var platforms []string
	for _, p := range in.Platforms {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	in.Platforms = platforms
	return nil
}

// Finalize consumes a draft and turns it into a storyboard with a generated
// presentation. The draft can be finalized once; a second call gets a
// not-found or conflict error. If the storyboard row or its content cannot
// be written, the draft is put back. The content row is saved before the
// presentation is generated, so a failed generation leaves a storyboard in
// failed status that can be reopened. The returned storyboard is non-nil
// whenever a row was written, even if err is not nil.
func (s *Service) Finalize(ctx context.Context, tok googleauth.Token, draftID string, userID uuid.UUID, in FinalizeInput) (*models.Storyboard, *slides.Result, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}
	d, err := s.Get(ctx, draftID, userID)
	if err != nil {
		return nil, nil, err
	}
	meta, err := s.meta(d, in)
	if err != nil {
		return nil, nil, err
	}

	var taken Draft
	ok, err := s.drafts.Take(ctx, draftID, &taken)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, apperr.Conflict("Draft was already finalized.", nil)
	}

	sb, err := s.saveStoryboard(&taken, in)
	if err != nil {
		s.restore(ctx, &taken)
		return nil, nil, err
	}
	if err := s.contents.Upsert(sb.ID, taken.Content); err != nil {
		// The row exists now; a retry of the restored draft updates it.
		taken.StoryboardID = &sb.ID
		s.restore(ctx, &taken)
		return sb, nil, fmt.Errorf("save storyboard content: %w", err)
	}

	res, err := s.decks.Generate(ctx, tok, taken.Content, meta)
	if err != nil {
		slog.Error("presentation generation failed", "storyboard", sb.ID, "error", err)
		if serr := s.storyboards.SetStatus(sb.ID, models.StoryboardStatusFailed); serr != nil {
			slog.Error("mark storyboard failed", "storyboard", sb.ID, "error", serr)
		}
		sb.Status = models.StoryboardStatusFailed
		return sb, res, err
	}

	if err := s.storyboards.SetPresentation(sb.ID, res.PresentationID, res.URL); err != nil {
		return sb, res, err
	}

	assets := []models.Asset{{Kind: AssetPresentation, URL: res.URL, CreatedAt: s.now()}}
	if in.ExportPDF {
		if a, ok := s.archivePDF(ctx, tok, sb.ID, in.Title, res.PresentationID); ok {
			assets = append(assets, a)
		}
	}
	if err := s.storyboards.SetAssets(sb.ID, assets); err != nil {
		return sb, res, err
	}

	slog.Info("storyboard generated", "storyboard", sb.ID, "presentation", res.PresentationID,
		"failed_batches", res.FailedBatches)

	fresh, err := s.storyboards.FindByID(sb.ID)
	if err != nil || fresh == nil {
		return sb, res, err
	}
	return fresh, res, nil
}

// restore puts back a draft taken by Finalize when nothing durable holds its
// content yet, so the user can retry.
func (s *Service) restore(ctx context.Context, d *Draft) {
	if err := s.drafts.Save(context.WithoutCancel(ctx), d.ID, d); err != nil {
		slog.Error("restore draft after failed finalize", "draft", d.ID, "error", err)
		return
	}
	slog.Warn("draft restored after failed finalize", "draft", d.ID)
}

// meta resolves the names that fill the presentation header.
func (s *Service) meta(d *Draft, in FinalizeInput) (slides.Meta, error) {
	meta := slides.Meta{
		Title:     in.Title,
		Client:    d.Brief.Client,
		Platforms: in.Platforms,
		Message:   d.Brief.Message,
		Target:    d.Brief.Target,
		Date:      s.now(),
	}
	if len(meta.Platforms) == 0 {
		meta.Platforms = d.Brief.Platforms
	}
	if in.ClientID != nil {
		c, err := s.clients.FindByID(*in.ClientID)
		if err != nil {
			return meta, fmt.Errorf("find client: %w", err)
		}
		if c == nil {
			return meta, apperr.Validation("Client not found.")
		}
		meta.Client = c.Name
	}
	if in.CreatorID != nil {
		c, err := s.creators.FindByID(*in.CreatorID)
		if err != nil {
			return meta, fmt.Errorf("find creator: %w", err)
		}
		if c == nil {
			return meta, apperr.Validation("Creator not found.")
		}
		meta.Creator = c.FullName()
	}
	return meta, nil
}

// saveStoryboard updates the storyboard a reopened draft came from, or
// creates a new one.
func (s *Service) saveStoryboard(d *Draft, in FinalizeInput) (*models.Storyboard, error) {
	platforms := in.Platforms
	if len(platforms) == 0 {
		platforms = d.Brief.Platforms
	}
	var original *string
	if d.Prompt != "" {
		original = &d.Prompt
	}

	if d.StoryboardID != nil {
		existing, err := s.storyboards.FindByID(*d.StoryboardID)
		if err != nil {
			return nil, fmt.Errorf("find storyboard: %w", err)
		}
		if existing != nil {
			existing.Title = in.Title
			existing.ClientID = in.ClientID
			existing.CreatorID = in.CreatorID
			existing.TemplateID = d.TemplateID
			existing.Platforms = platforms
			if original != nil {
				existing.OriginalContent = original
			}
			if err := s.storyboards.Update(existing); err != nil {
				return nil, fmt.Errorf("update storyboard: %w", err)
			}
			return existing, nil
		}
		slog.Warn("reopened storyboard no longer exists, creating a new one", "storyboard", *d.StoryboardID)
	}

	userID := d.UserID
	sb, err := s.storyboards.Create(&models.Storyboard{
		Title:           in.Title,
		ClientID:        in.ClientID,
		CreatorID:       in.CreatorID,
		TemplateID:      d.TemplateID,
		Status:          models.StoryboardStatusDraft,
		OriginalContent: original,
		Platforms:       platforms,
		CreatedBy:       &userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create storyboard: %w", err)
	}
	return sb, nil
}

// archivePDF exports the presentation and uploads it. Failures are logged;
// the presentation itself is already usable.
func (s *Service) archivePDF(ctx context.Context, tok googleauth.Token, id uuid.UUID, title, presentationID string) (models.Asset, bool) {
	if s.archive == nil {
		slog.Warn("pdf export requested but storage is not configured", "storyboard", id)
		return models.Asset{}, false
	}
	data, err := s.decks.ExportPDF(ctx, tok, presentationID)
	if err != nil {
		slog.Warn("pdf export failed", "storyboard", id, "error", err)
		return models.Asset{}, false
	}
	key := storage.ExportKey(id.String(), title, "pdf")
	if err := s.archive.Upload(ctx, key, slides.MimePDF, data); err != nil {
		slog.Warn("pdf upload failed", "storyboard", id, "key", key, "error", err)
		return models.Asset{}, false
	}
	return models.Asset{
		Kind:        AssetPDF,
		StorageKey:  key,
		ContentType: slides.MimePDF,
		CreatedAt:   s.now(),
	}, true
}

// DownloadURL returns a short-lived link to an archived asset of kind.
func (s *Service) DownloadURL(ctx context.Context, storyboardID uuid.UUID, kind string) (string, error) {
	sb, err := s.storyboards.FindByID(storyboardID)
	if err != nil {
		return "", fmt.Errorf("find storyboard: %w", err)
	}
	if sb == nil {
		return "", apperr.NotFound("Storyboard not found.")
	}
	for _, a := range sb.Assets {
		if a.Kind != kind {
			continue
		}
		if a.StorageKey == "" {
			return a.URL, nil
		}
		if s.archive == nil {
			return "", apperr.NotFound("Storage is not configured.")
		}
		return s.archive.PresignedURL(ctx, a.StorageKey, storage.DefaultLinkTTL)
	}
	return "", apperr.NotFound("Asset not found.")
}
