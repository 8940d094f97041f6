// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai talks to the LLM providers (Claude, OpenAI, Gemini, Mistral)
// and turns their output into structured storyboard content. Every provider
// implements Provider; the Registry holds the configured ones and routes
// generation to the active one, which can be switched at runtime.
package ai

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Request is a single, non-streaming generation call.
type Request struct {
	System      string   // system instruction
	Prompt      string   // user message
	Model       string   // empty = provider default
	Temperature *float64 // nil = provider default; 0 is sent as is
	MaxTokens   int      // 0 = provider default
	JSON        bool     // ask for a single JSON object as output
}

// Provider is one LLM backend.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

var (
	// ErrUnknownProvider is returned for a name no constructor exists for.
	ErrUnknownProvider = errors.New("unknown AI provider")
	// ErrNoAPIKey is returned for a known provider that was not configured.
	ErrNoAPIKey = errors.New("AI provider has no API key")
)

// constructors builds each supported provider from its config.
var constructors = map[string]func(ProviderConfig) Provider{
	"claude":  func(c ProviderConfig) Provider { return newClaude(c) },
	"gemini":  func(c ProviderConfig) Provider { return newGemini(c) },
	"mistral": func(c ProviderConfig) Provider { return newMistral(c) },
	"openai":  func(c ProviderConfig) Provider { return newOpenAI(c) },
}

// Supported returns the names of every provider this package can build.
func Supported() []string {
	return slices.Sorted(maps.Keys(constructors))
}

// Registry holds the configured providers and the active one. It is safe
// for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
	moderator Moderator
}

// NewRegistry builds a provider for every supported config with an API key.
// The active name is kept even when it has no provider yet, so Generate
// reports the misconfiguration on use.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider, len(configs)),
		active:    active,
		moderator: newModerator(configs),
	}
	for name, cfg := range configs {
		build, ok := constructors[name]
		if !ok || cfg.APIKey == "" {
			continue
		}
		r.providers[name] = build(cfg)
	}
	return r
}

// Generate runs req on the active provider.
func (r *Registry) Generate(ctx context.Context, req Request) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, req)
}

// Active returns the active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.providers[r.active]; ok {
		return p, nil
	}
	return nil, r.unavailable(r.active)
}

// SetActive makes name the active provider. It fails with ErrUnknownProvider
// or ErrNoAPIKey and leaves the active provider unchanged.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return r.unavailable(name)
	}
	r.active = name
	return nil
}

// unavailable explains why name has no provider. Callers hold r.mu.
func (r *Registry) unavailable(name string) error {
	if _, known := constructors[name]; !known {
		return fmt.Errorf("ai: %q: %w", name, ErrUnknownProvider)
	}
	return fmt.Errorf("ai: %q: %w", name, ErrNoAPIKey)
}

// ActiveName returns the name of the active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Available returns the sorted names of the configured providers.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.providers))
}

// HasProvider reports whether name is configured.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// Register adds or replaces a provider under name.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// CheckPrompt screens text with the configured moderator. Without an
// OpenAI or Mistral key every prompt is reported safe.
func (r *Registry) CheckPrompt(ctx context.Context, text string) (*ModerationResult, error) {
	r.mu.RLock()
	m := r.moderator
	r.mu.RUnlock()

	if m == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return m.CheckSafety(ctx, text)
}

// SetModerator replaces the moderator. A nil moderator disables screening.
func (r *Registry) SetModerator(m Moderator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moderator = m
}
