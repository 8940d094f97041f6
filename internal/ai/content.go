// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"storyboarder/internal/apperr"
	"storyboarder/internal/models"
)

// Generator produces structured storyboard content from a prompt using the
// active provider of a Registry.
type Generator struct {
	registry    *Registry
	temperature float64
	maxTokens   int
}

// NewGenerator creates a Generator that sends every request with the given
// sampling settings.
func NewGenerator(registry *Registry, temperature float64, maxTokens int) *Generator {
	return &Generator{registry: registry, temperature: temperature, maxTokens: maxTokens}
}

// Registry returns the provider registry backing the generator.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// GenerateContent makes exactly one provider call. A provider or network
// failure is returned as an external-service error; output that cannot be
// read as content is returned as a parse error. Neither is retried.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (*models.StructuredContent, error) {
	provider, err := g.registry.Active()
	if err != nil {
		return nil, apperr.External("ai", err)
	}

	text, err := provider.Generate(ctx, Request{
		System:      systemPrompt,
		Prompt:      prompt,
		Temperature: &g.temperature,
		MaxTokens:   g.maxTokens,
		JSON:        true,
	})
	if err != nil {
		attrs := []any{"provider", provider.Name(), "error", err}
		var se *StatusError
		if errors.As(err, &se) {
			attrs = append(attrs, "status", se.Code, "temporary", se.Temporary())
		}
		slog.Error("ai generate content failed", attrs...)
		return nil, apperr.External(provider.Name(), err)
	}

	content, err := ParseContent(text)
	if err != nil {
		slog.Error("ai content parse failed", "provider", provider.Name(), "error", err, "length", len(text))
		return nil, err
	}

	slog.Info("ai content generated", "provider", provider.Name())
	return content, nil
}

// objectSpan matches from the first "{" to the last "}".
var objectSpan = regexp.MustCompile(`(?s)\{.*\}`)

// ErrNoContent is returned when the model's JSON has none of the content keys.
var ErrNoContent = errors.New("response has no content fields")

// ParseContent reads structured content from model output. It tries, in
// order: the text as strict JSON, the text with a Markdown code fence
// removed, and the first {...} span in the text.
func ParseContent(text string) (*models.StructuredContent, error) {
	candidates := []string{text}
	if unfenced := stripCodeFence(text); unfenced != text {
		candidates = append(candidates, unfenced)
	}
	if span := objectSpan.FindString(text); span != "" {
		candidates = append(candidates, span)
	}

	var lastErr error
	for _, c := range candidates {
		content, err := decodeContent(c)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return nil, apperr.Parse("could not read generated content", lastErr)
}

func decodeContent(s string) (*models.StructuredContent, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, errors.New("not a JSON object")
	}
	var c models.StructuredContent
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	if c.IsEmpty() {
		return nil, ErrNoContent
	}
	return &c, nil
}

// stripCodeFence removes a surrounding ```json ... ``` wrapper.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line, including any language tag.
	if nl := strings.Index(s, "\n"); nl != -1 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
