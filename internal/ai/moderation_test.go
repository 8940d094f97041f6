// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"storyboarder/internal/apperr"
)

func TestOpenAIModerator_Flagged(t *testing.T) {
	var headers http.Header
	var reqBody []byte
	srv := captureServer(t, []byte(`{"results":[{"flagged":true,"categories":{
		"hate/threatening":true,"self_harm":true,"violence":false}}]}`), &headers, &reqBody)
	defer srv.Close()

	m := newOpenAIModerator(ProviderConfig{APIKey: "sk-test", BaseURL: srv.URL})
	res, err := m.CheckSafety(context.Background(), "some brief")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if res.Safe {
		t.Error("result should not be safe")
	}
	want := []string{"hate (threatening)", "self harm"}
	if !reflect.DeepEqual(res.Categories, want) {
		t.Errorf("Categories = %v, want %v", res.Categories, want)
	}
	if got := headers.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got)
	}

	var sent moderationRequest
	if err := json.Unmarshal(reqBody, &sent); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if sent.Model != "omni-moderation-latest" || sent.Input != "some brief" {
		t.Errorf("request = %+v", sent)
	}
}

func TestOpenAIModerator_NotFlagged(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"results":[{"flagged":false,"categories":{"violence":false}}]}`))
	defer srv.Close()

	res, err := newOpenAIModerator(ProviderConfig{APIKey: "k", BaseURL: srv.URL}).CheckSafety(context.Background(), "x")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if !res.Safe || len(res.Categories) != 0 {
		t.Errorf("result = %+v, want safe", res)
	}
}

func TestMistralModerator_CategoriesDecide(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"results":[{"categories":{"sexual":false,"violence_and_threats":true}}]}`))
	defer srv.Close()

	res, err := newMistralModerator(ProviderConfig{APIKey: "k", BaseURL: srv.URL}).CheckSafety(context.Background(), "x")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if res.Safe {
		t.Error("mistral result with a flagged category should not be safe")
	}
	if !reflect.DeepEqual(res.Categories, []string{"violence and threats"}) {
		t.Errorf("Categories = %v", res.Categories)
	}
}

func TestModerator_Errors(t *testing.T) {
	t.Run("non-200 is external", func(t *testing.T) {
		srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{"error":"slow down"}`))
		defer srv.Close()
		_, err := newOpenAIModerator(ProviderConfig{APIKey: "k", BaseURL: srv.URL}).CheckSafety(context.Background(), "x")
		if !apperr.Is(err, apperr.KindExternalService) {
			t.Fatalf("err = %v, want external service", err)
		}
	})

	t.Run("bad json is parse", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, []byte(`not json`))
		defer srv.Close()
		_, err := newMistralModerator(ProviderConfig{APIKey: "k", BaseURL: srv.URL}).CheckSafety(context.Background(), "x")
		if !apperr.Is(err, apperr.KindParse) {
			t.Fatalf("err = %v, want parse", err)
		}
	})

	t.Run("empty results are safe", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, []byte(`{"results":[]}`))
		defer srv.Close()
		res, err := newOpenAIModerator(ProviderConfig{APIKey: "k", BaseURL: srv.URL}).CheckSafety(context.Background(), "x")
		if err != nil || !res.Safe {
			t.Fatalf("res = %+v, err = %v", res, err)
		}
	})
}

type stubModerator struct {
	res   *ModerationResult
	err   error
	calls int
}

func (s *stubModerator) CheckSafety(context.Context, string) (*ModerationResult, error) {
	s.calls++
	return s.res, s.err
}

func TestModeratorChain_FallsBack(t *testing.T) {
	first := &stubModerator{err: errors.New("down")}
	second := &stubModerator{res: &ModerationResult{Safe: true}}

	res, err := moderatorChain{first, second}.CheckSafety(context.Background(), "x")
	if err != nil || !res.Safe {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("calls = %d/%d", first.calls, second.calls)
	}

	third := &stubModerator{err: errors.New("also down")}
	if _, err := (moderatorChain{first, third}).CheckSafety(context.Background(), "x"); err == nil {
		t.Error("chain should fail when every moderator fails")
	}
}

func TestRegistryCheckPrompt(t *testing.T) {
	r := NewRegistry("claude", map[string]ProviderConfig{"claude": {APIKey: "k"}})
	res, err := r.CheckPrompt(context.Background(), "anything")
	if err != nil || !res.Safe {
		t.Fatalf("without a moderation key every prompt is safe, got %+v, %v", res, err)
	}

	stub := &stubModerator{res: &ModerationResult{Categories: []string{"hate"}}}
	r.SetModerator(stub)
	res, err = r.CheckPrompt(context.Background(), "anything")
	if err != nil || res.Safe || stub.calls != 1 {
		t.Fatalf("res = %+v, err = %v, calls = %d", res, err, stub.calls)
	}
}

func TestNewModerator_FromKeys(t *testing.T) {
	if m := newModerator(map[string]ProviderConfig{"claude": {APIKey: "k"}}); m != nil {
		t.Errorf("moderator = %T, want nil", m)
	}
	if _, ok := newModerator(map[string]ProviderConfig{"openai": {APIKey: "k"}}).(*moderationAPI); !ok {
		t.Error("a single key should give a single endpoint")
	}
	chain, ok := newModerator(map[string]ProviderConfig{
		"openai":  {APIKey: "k"},
		"mistral": {APIKey: "k"},
	}).(moderatorChain)
	if !ok || len(chain) != 2 {
		t.Fatalf("both keys should give a two-step chain, got %T", chain)
	}
}

func TestBriefText(t *testing.T) {
	b := Brief{Objective: " launch ", Message: "new flavour", Platforms: []string{"tiktok"}, Tone: ""}
	if got := b.Text(); got != "launch\nnew flavour" {
		t.Errorf("Text() = %q", got)
	}
}
