// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
)

const openAIBaseURL = "https://api.openai.com/v1"

// chatProvider speaks the OpenAI Chat Completions protocol. Mistral serves
// the same protocol, so both providers are a chatProvider.
type chatProvider struct {
	name  string
	model string
	chat  *jsonEndpoint
}

func newChatProvider(name, base string, cfg ProviderConfig) *chatProvider {
	if cfg.BaseURL != "" {
		base = cfg.BaseURL
	}
	return &chatProvider{
		name:  name,
		model: cfg.Model,
		chat:  newJSONEndpoint(name, base, "/chat/completions", requestTimeout, bearer(cfg.APIKey)),
	}
}

func newOpenAI(cfg ProviderConfig) *chatProvider {
	return newChatProvider("openai", openAIBaseURL, cfg)
}

func (p *chatProvider) Name() string { return p.name }

func (p *chatProvider) Generate(ctx context.Context, r Request) (string, error) {
	body := chatRequest{Model: firstNonEmpty(r.Model, p.model)}
	if r.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: r.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: r.Prompt})
	body.Temperature = r.Temperature
	if r.MaxTokens > 0 {
		body.MaxTokens = r.MaxTokens
	}
	if r.JSON {
		body.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	var resp chatResponse
	if err := p.chat.call(ctx, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		return "", fmt.Errorf("%s: output cut off at the token limit", p.name)
	}
	if choice.Message.Content == "" {
		return "", errors.New(p.name + ": empty message")
	}
	return choice.Message.Content, nil
}

// OpenAI Chat Completions wire types.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    *float64            `json:"temperature,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}
