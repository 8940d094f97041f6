// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"storyboarder/internal/apperr"
)

// ModerationResult is the outcome of a brief safety check.
type ModerationResult struct {
	Safe       bool
	Categories []string // flagged categories, human readable and sorted
}

// Moderator screens user text before it reaches a generation endpoint.
type Moderator interface {
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// moderationAPI calls an OpenAI-compatible /moderations method. OpenAI and
// Mistral share the request shape; OpenAI adds a top-level flagged bit.
type moderationAPI struct {
	model    string
	endpoint *jsonEndpoint
}

const moderationTimeout = 15 * time.Second

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged    *bool           `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}

func newModerationAPI(name, base, model string, cfg ProviderConfig) *moderationAPI {
	if cfg.BaseURL != "" {
		base = cfg.BaseURL
	}
	return &moderationAPI{
		model:    model,
		endpoint: newJSONEndpoint(name+" moderation", base, "/moderations", moderationTimeout, bearer(cfg.APIKey)),
	}
}

func newOpenAIModerator(cfg ProviderConfig) *moderationAPI {
	return newModerationAPI("openai", openAIBaseURL, "omni-moderation-latest", cfg)
}

func newMistralModerator(cfg ProviderConfig) *moderationAPI {
	return newModerationAPI("mistral", mistralBaseURL, "mistral-moderation-latest", cfg)
}

func (m *moderationAPI) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var resp moderationResponse
	err := m.endpoint.call(ctx, moderationRequest{Model: m.model, Input: text}, &resp)
	if errors.Is(err, errMalformed) {
		return nil, apperr.Parse("moderation response is not valid JSON", err)
	}
	if err != nil {
		return nil, apperr.External(m.endpoint.api, err)
	}
	if len(resp.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	r := resp.Results[0]
	var flagged []string
	for cat, hit := range r.Categories {
		if hit {
			flagged = append(flagged, categoryLabel(cat))
		}
	}
	sort.Strings(flagged)

	safe := len(flagged) == 0
	if r.Flagged != nil {
		safe = !*r.Flagged
	}
	if safe {
		flagged = nil
	}
	return &ModerationResult{Safe: safe, Categories: flagged}, nil
}

// categoryLabel turns "hate/threatening" into "hate (threatening)" and
// "self_harm" into "self harm".
func categoryLabel(cat string) string {
	label := cat
	if base, sub, ok := strings.Cut(cat, "/"); ok {
		label = base + " (" + sub + ")"
	}
	return strings.ReplaceAll(label, "_", " ")
}

// moderatorChain asks each moderator in order and returns the first answer.
type moderatorChain []Moderator

func (c moderatorChain) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var errs []error
	for _, m := range c {
		res, err := m.CheckSafety(ctx, text)
		if err == nil {
			return res, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// newModerator builds the moderator for the configured keys: OpenAI first,
// Mistral as fallback. Returns nil when neither key is set.
func newModerator(configs map[string]ProviderConfig) Moderator {
	var chain moderatorChain
	if cfg, ok := configs["openai"]; ok && cfg.APIKey != "" {
		chain = append(chain, newOpenAIModerator(cfg))
	}
	if cfg, ok := configs["mistral"]; ok && cfg.APIKey != "" {
		chain = append(chain, newMistralModerator(cfg))
	}
	switch len(chain) {
	case 0:
		return nil
	case 1:
		return chain[0]
	}
	return chain
}
