// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slides

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storyboarder/internal/apperr"
	"storyboarder/internal/googleauth"
	"storyboarder/internal/models"
)

// DefaultBatchSize is the sub-batch size used when the full batch fails.
const DefaultBatchSize = 5

// Generator copies the presentation template and fills it in.
type Generator struct {
	platform   Platform
	templateID string
	batchSize  int
	strict     bool
	now        func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithBatchSize sets the fallback sub-batch size. Values below 1 are ignored.
func WithBatchSize(n int) Option {
	return func(g *Generator) {
		if n >= 1 {
			g.batchSize = n
		}
	}
}

// WithStrictBatches makes the first failing sub-batch abort generation
// instead of being logged and skipped.
func WithStrictBatches(strict bool) Option {
	return func(g *Generator) { g.strict = strict }
}

// WithClock overrides the clock used to date the deck.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator that copies templateID on platform.
func NewGenerator(platform Platform, templateID string, opts ...Option) *Generator {
	g := &Generator{
		platform:   platform,
		templateID: templateID,
		batchSize:  DefaultBatchSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result describes a generated presentation. FailedBatches counts fallback
// sub-batches that were skipped; when it is non-zero some placeholders were
// left unreplaced.
type Result struct {
	PresentationID string `json:"presentation_id"`
	URL            string `json:"url"`
	FailedBatches  int    `json:"failed_batches"`
}

// Generate copies the template and then replaces its placeholders. The copy
// always completes before any replace request is sent. All replacements go
// out in one batch; if that fails they are re-sent in sub-batches, and a
// failing sub-batch is logged and skipped unless strict mode is on. Applied
// sub-batches are never rolled back.
func (g *Generator) Generate(ctx context.Context, tok googleauth.Token, content *models.StructuredContent, meta Meta) (*Result, error) {
	if g.templateID == "" {
		return nil, apperr.New(apperr.KindInternal, "presentation template is not configured", nil)
	}
	if meta.Date.IsZero() {
		meta.Date = g.now()
	}

	name := FileName(meta)
	id, err := g.platform.CopyFile(ctx, tok, g.templateID, name)
	if err != nil {
		slog.Error("slides template copy failed", "template", g.templateID, "error", err)
		return nil, apperr.External("google drive", err)
	}
	slog.Info("slides template copied", "presentation", id, "name", name)

	result := &Result{PresentationID: id, URL: PresentationURL(id)}
	reps := Placeholders(content, meta)

	err = g.platform.BatchReplace(ctx, tok, id, reps)
	if err == nil {
		return result, nil
	}
	slog.Warn("slides batch update failed, retrying in sub-batches",
		"presentation", id, "requests", len(reps), "batch_size", g.batchSize, "error", err)

	for start := 0; start < len(reps); start += g.batchSize {
		end := min(start+g.batchSize, len(reps))
		if err := g.platform.BatchReplace(ctx, tok, id, reps[start:end]); err != nil {
			result.FailedBatches++
			slog.Error("slides sub-batch failed", "presentation", id, "from", start, "to", end, "error", err)
			if g.strict {
				return result, apperr.External("google slides", fmt.Errorf("sub-batch %d-%d: %w", start, end, err))
			}
		}
	}

	if result.FailedBatches > 0 {
		slog.Warn("slides generated with skipped sub-batches", "presentation", id, "failed", result.FailedBatches)
	}
	return result, nil
}

// ExportPDF downloads a presentation as PDF.
func (g *Generator) ExportPDF(ctx context.Context, tok googleauth.Token, presentationID string) ([]byte, error) {
	data, err := g.platform.Export(ctx, tok, presentationID, MimePDF)
	if err != nil {
		return nil, apperr.External("google drive", err)
	}
	return data, nil
}
