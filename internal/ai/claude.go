// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// claudeDefaultMaxTokens is sent when the request leaves MaxTokens unset;
// the Messages API requires the field.
const claudeDefaultMaxTokens = 4096

const (
	claudeBaseURL = "https://api.anthropic.com"
	claudeVersion = "2023-06-01"
)

// claudeProvider talks to the Anthropic Messages API. It has no JSON mode,
// so JSON requests prefill the assistant turn with "{" instead.
type claudeProvider struct {
	model    string
	messages *jsonEndpoint
}

func newClaude(cfg ProviderConfig) *claudeProvider {
	base := cfg.BaseURL
	if base == "" {
		base = claudeBaseURL
	}
	header := http.Header{}
	header.Set("x-api-key", cfg.APIKey)
	header.Set("anthropic-version", claudeVersion)
	return &claudeProvider{
		model:    cfg.Model,
		messages: newJSONEndpoint("claude", base, "/v1/messages", requestTimeout, header),
	}
}

func (p *claudeProvider) Name() string { return "claude" }

func (p *claudeProvider) Generate(ctx context.Context, r Request) (string, error) {
	body := claudeRequest{
		Model:     firstNonEmpty(r.Model, p.model),
		MaxTokens: r.MaxTokens,
		System:    r.System,
		Messages:  []claudeMessage{{Role: "user", Content: r.Prompt}},
	}
	if body.MaxTokens <= 0 {
		body.MaxTokens = claudeDefaultMaxTokens
	}
	body.Temperature = r.Temperature
	prefill := ""
	if r.JSON {
		prefill = "{"
		body.Messages = append(body.Messages, claudeMessage{Role: "assistant", Content: prefill})
	}

	var resp claudeResponse
	if err := p.messages.call(ctx, body, &resp); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("claude: no text content in response")
	}
	if resp.StopReason == "max_tokens" {
		return "", fmt.Errorf("claude: output cut off at %d tokens", body.MaxTokens)
	}
	return prefill + out.String(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature *float64        `json:"temperature,omitempty"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
}
