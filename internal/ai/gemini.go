// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// geminiProvider implements the Provider interface using the Google GenAI
// SDK against the Gemini Developer API.
type geminiProvider struct {
	config ProviderConfig
	client *genai.Client
	err    error // client construction failure, reported on Generate
}

// newGemini creates a new Gemini provider. BaseURL overrides the API
// endpoint and is only set in tests.
func newGemini(cfg ProviderConfig) *geminiProvider {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(context.Background(), cc)
	return &geminiProvider{config: cfg, client: client, err: err}
}

func (p *geminiProvider) Name() string { return "gemini" }

// Generate calls models.generateContent and returns the response text.
func (p *geminiProvider) Generate(ctx context.Context, r Request) (string, error) {
	if p.err != nil {
		return "", fmt.Errorf("gemini client: %w", p.err)
	}

	model := r.Model
	if model == "" {
		model = p.config.Model
	}

	cfg := &genai.GenerateContentConfig{}
	if r.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(r.System, genai.RoleUser)
	}
	if r.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*r.Temperature))
	}
	if r.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(r.MaxTokens)
	}
	if r.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(r.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: no text content in response")
	}
	return text, nil
}
