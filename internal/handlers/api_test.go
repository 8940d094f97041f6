// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"storyboarder/internal/ai"
	"storyboarder/internal/editor"
	"storyboarder/internal/models"
)

// draftBody is the JSON shape of a draft response.
type draftBody struct {
	ID           string                   `json:"id"`
	StoryboardID *uuid.UUID               `json:"storyboard_id"`
	Content      models.StructuredContent `json:"content"`
	Document     editor.Document          `json:"document"`
	Changed      []string                 `json:"changed"`
}

func testBrief() map[string]any {
	return map[string]any{
		"brief": map[string]any{
			"client":    "Nike",
			"objective": "Lanzar las nuevas zapatillas",
			"message":   "Corre más lejos",
			"platforms": []string{"TikTok", "Instagram"},
		},
	}
}

func TestClientCRUD(t *testing.T) {
	env := newTestEnv(t)
	name := "Client " + uuid.NewString()[:8]

	rec := env.do(t, http.MethodPost, "/clients", map[string]any{"name": "  " + name + "  ", "email": "ops@nike.example"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", rec.Code, rec.Body)
	}
	var c models.Client
	decode(t, rec, &c)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM clients WHERE id = $1", c.ID) })
	if c.Name != name {
		t.Errorf("name = %q, want trimmed %q", c.Name, name)
	}

	if rec := env.do(t, http.MethodPost, "/clients", map[string]any{"name": name}); rec.Code != http.StatusConflict {
		t.Errorf("duplicate name: got %d, want 409", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/clients", map[string]any{"name": ""}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty name: got %d, want 422", rec.Code)
	}

	rec = env.do(t, http.MethodPut, "/clients/"+c.ID.String(), map[string]any{"name": name, "industry": "Sportswear"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d: %s", rec.Code, rec.Body)
	}
	var updated models.Client
	decode(t, rec, &updated)
	if updated.Industry == nil || *updated.Industry != "Sportswear" {
		t.Errorf("industry = %v", updated.Industry)
	}

	rec = env.do(t, http.MethodGet, "/clients/"+c.ID.String()+"/storyboards", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("client storyboards: got %d", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, "/clients/"+c.ID.String(), nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete: got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/clients/"+c.ID.String(), nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/clients/not-a-uuid", nil); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad id: got %d, want 422", rec.Code)
	}
}

func TestCreatorsFilter(t *testing.T) {
	env := newTestEnv(t)
	tag := uuid.NewString()[:8]

	for _, in := range []map[string]any{
		{"name": "Ana " + tag, "email": "ana-" + tag + "@example.com", "status": "active", "platform": "tiktok"},
		{"name": "Bruno " + tag, "email": "bruno-" + tag + "@example.com"},
	} {
		rec := env.do(t, http.MethodPost, "/creators", in)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create creator: got %d: %s", rec.Code, rec.Body)
		}
		var c models.Creator
		decode(t, rec, &c)
		t.Cleanup(func() { env.DB.Exec("DELETE FROM creators WHERE id = $1", c.ID) })
	}

	var all []models.Creator
	decode(t, env.do(t, http.MethodGet, "/creators?q="+tag, nil), &all)
	if len(all) != 2 {
		t.Fatalf("search: got %d creators, want 2", len(all))
	}
	if all[1].Status != models.CreatorStatusProspect {
		t.Errorf("default status = %q, want prospect", all[1].Status)
	}

	var active []models.Creator
	decode(t, env.do(t, http.MethodGet, "/creators?status=active&platform=tiktok&q="+tag, nil), &active)
	if len(active) != 1 || !strings.HasPrefix(active[0].Name, "Ana") {
		t.Errorf("filtered = %+v, want only Ana", active)
	}

	if rec := env.do(t, http.MethodGet, "/creators?status=famous", nil); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown status: got %d, want 422", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/creators", map[string]any{"name": "X", "email": "nope"}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid email: got %d, want 422", rec.Code)
	}
}

func TestTemplateDefault(t *testing.T) {
	env := newTestEnv(t)

	var previous uuid.UUID
	env.DB.QueryRow("SELECT id FROM templates WHERE is_default").Scan(&previous)
	t.Cleanup(func() {
		if previous != uuid.Nil {
			env.API.templateStore.SetDefault(previous)
		}
	})

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/templates", map[string]any{
			"name":     "Template " + uuid.NewString()[:8],
			"sections": []string{" Hook ", "", "CTA"},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create template: got %d: %s", rec.Code, rec.Body)
		}
		var tmpl models.Template
		decode(t, rec, &tmpl)
		if len(tmpl.Sections) != 2 || tmpl.Sections[0] != "Hook" {
			t.Errorf("sections = %q, want trimmed and without blanks", tmpl.Sections)
		}
		ids = append(ids, tmpl.ID)
		id := tmpl.ID
		t.Cleanup(func() { env.DB.Exec("DELETE FROM templates WHERE id = $1", id) })
	}

	for _, id := range ids {
		if rec := env.do(t, http.MethodPost, "/templates/"+id.String()+"/default", nil); rec.Code != http.StatusOK {
			t.Fatalf("set default: got %d: %s", rec.Code, rec.Body)
		}
	}

	var defaults []uuid.UUID
	var list []models.Template
	decode(t, env.do(t, http.MethodGet, "/templates", nil), &list)
	for _, tmpl := range list {
		if tmpl.IsDefault {
			defaults = append(defaults, tmpl.ID)
		}
	}
	if len(defaults) != 1 || defaults[0] != ids[1] {
		t.Errorf("defaults = %v, want only %s", defaults, ids[1])
	}

	if rec := env.do(t, http.MethodDelete, "/templates/"+ids[1].String(), nil); rec.Code != http.StatusConflict {
		t.Errorf("delete default: got %d, want 409", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/templates/"+uuid.NewString()+"/default", nil); rec.Code != http.StatusNotFound {
		t.Errorf("default of missing template: got %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/templates", map[string]any{"name": "Empty", "sections": []string{" "}}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("no sections: got %d, want 422", rec.Code)
	}
}

func TestDraftLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/drafts", testBrief())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create draft: got %d: %s", rec.Code, rec.Body)
	}
	var d draftBody
	decode(t, rec, &d)
	if d.Content.Hook != "¿Listo para correr?" {
		t.Errorf("hook = %q", d.Content.Hook)
	}
	if d.Document.Type != editor.TypeDoc {
		t.Errorf("document type = %q, want doc", d.Document.Type)
	}

	// Edit only the hook through the editor document.
	codec := env.API.service.Codec()
	content := codec.Decode(d.Document)
	content.Hook = "Nuevo hook"
	rec = env.do(t, http.MethodPut, "/drafts/"+d.ID+"/document", codec.Encode(content))
	if rec.Code != http.StatusOK {
		t.Fatalf("edit: got %d: %s", rec.Code, rec.Body)
	}
	var edited draftBody
	decode(t, rec, &edited)
	if len(edited.Changed) != 1 || edited.Changed[0] != models.FieldHook {
		t.Errorf("changed = %v, want [hook]", edited.Changed)
	}

	var preview map[string]string
	decode(t, env.do(t, http.MethodGet, "/drafts/"+d.ID+"/preview", nil), &preview)
	if !strings.Contains(preview["html"], "Nuevo hook") {
		t.Errorf("preview missing edit: %s", preview["html"])
	}

	rec = env.do(t, http.MethodPost, "/drafts/"+d.ID+"/finalize", map[string]any{"title": "Lanzamiento"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("finalize: got %d: %s", rec.Code, rec.Body)
	}
	var fin struct {
		Storyboard models.Storyboard `json:"storyboard"`
		Slides     struct {
			PresentationID string `json:"presentation_id"`
		} `json:"slides"`
	}
	decode(t, rec, &fin)
	sbID := fin.Storyboard.ID.String()
	if fin.Storyboard.Status != models.StoryboardStatusGenerated {
		t.Errorf("status = %q, want generated", fin.Storyboard.Status)
	}
	if fin.Slides.PresentationID == "" {
		t.Error("missing presentation id")
	}
	if len(fin.Storyboard.Platforms) != 2 {
		t.Errorf("platforms = %v, want the brief's platforms", fin.Storyboard.Platforms)
	}

	if rec := env.do(t, http.MethodPost, "/drafts/"+d.ID+"/finalize", map[string]any{"title": "Again"}); rec.Code != http.StatusNotFound {
		t.Errorf("second finalize: got %d, want 404", rec.Code)
	}

	var saved struct {
		ID      uuid.UUID                `json:"id"`
		Content models.StructuredContent `json:"content"`
	}
	decode(t, env.do(t, http.MethodGet, "/storyboards/"+sbID, nil), &saved)
	if saved.Content.Hook != "Nuevo hook" {
		t.Errorf("saved hook = %q", saved.Content.Hook)
	}

	rec = env.do(t, http.MethodGet, "/storyboards/"+sbID+"/edit", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("reopen: got %d: %s", rec.Code, rec.Body)
	}
	var reopened draftBody
	decode(t, rec, &reopened)
	if reopened.StoryboardID == nil || reopened.StoryboardID.String() != sbID {
		t.Errorf("reopened storyboard id = %v, want %s", reopened.StoryboardID, sbID)
	}
	if reopened.Content.Hook != "Nuevo hook" {
		t.Errorf("reopened hook = %q", reopened.Content.Hook)
	}

	rec = env.do(t, http.MethodGet, "/storyboards/"+sbID+"/assets/presentation", nil)
	if rec.Code != http.StatusFound || !strings.Contains(rec.Header().Get("Location"), fin.Slides.PresentationID) {
		t.Errorf("asset redirect: got %d to %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := env.do(t, http.MethodGet, "/storyboards/"+sbID+"/assets/pdf", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing pdf asset: got %d, want 404", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, "/storyboards/"+sbID, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete: got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/storyboards/"+sbID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}
}

func TestDraftCreate_ValidatesBriefBeforeCallingProvider(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/drafts", map[string]any{"brief": map[string]any{"message": "hola"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422", rec.Code)
	}
	if env.Provider.calls != 0 {
		t.Errorf("provider called %d times on an invalid brief", env.Provider.calls)
	}
}

type flagAll struct{}

func (flagAll) CheckSafety(context.Context, string) (*ai.ModerationResult, error) {
	return &ai.ModerationResult{Categories: []string{"violence"}}, nil
}

func TestDraftCreate_FlaggedBriefIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.Registry.SetModerator(flagAll{})

	rec := env.do(t, http.MethodPost, "/drafts", testBrief())
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "violence") {
		t.Errorf("body should name the flagged category: %s", rec.Body)
	}
	if env.Provider.calls != 0 {
		t.Errorf("provider called %d times on a flagged brief", env.Provider.calls)
	}
}

func TestDraftCreate_ProviderFailureIsBadGateway(t *testing.T) {
	env := newTestEnv(t)
	env.Provider.err = errors.New("status 500: upstream exploded")

	rec := env.do(t, http.MethodPost, "/drafts", testBrief())
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("got %d, want 502", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "upstream exploded") {
		t.Errorf("provider details leaked: %s", rec.Body)
	}
}

func TestDraft_OtherUserCannotRead(t *testing.T) {
	env := newTestEnv(t)

	var d draftBody
	decode(t, env.do(t, http.MethodPost, "/drafts", testBrief()), &d)

	owner := env.Session.UserID
	env.Session.UserID = uuid.New()
	if rec := env.do(t, http.MethodGet, "/drafts/"+d.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("foreign draft: got %d, want 404", rec.Code)
	}
	env.Session.UserID = owner

	if rec := env.do(t, http.MethodDelete, "/drafts/"+d.ID, nil); rec.Code != http.StatusNoContent {
		t.Errorf("discard: got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/drafts/"+d.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("discarded draft: got %d, want 404", rec.Code)
	}
}

func TestDraftFinalize_SlidesFailureKeepsStoryboard(t *testing.T) {
	env := newTestEnv(t)
	env.Platform.copyErr = errors.New("drive: quota exceeded")

	var d draftBody
	decode(t, env.do(t, http.MethodPost, "/drafts", testBrief()), &d)

	rec := env.do(t, http.MethodPost, "/drafts/"+d.ID+"/finalize", map[string]any{"title": "Falla"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("got %d, want 502: %s", rec.Code, rec.Body)
	}
	var body struct {
		Storyboard models.Storyboard `json:"storyboard"`
		Error      string            `json:"error"`
	}
	decode(t, rec, &body)
	if body.Storyboard.Status != models.StoryboardStatusFailed {
		t.Errorf("status = %q, want failed", body.Storyboard.Status)
	}
	if body.Error == "" || strings.Contains(body.Error, "quota") {
		t.Errorf("error = %q, want a generic message", body.Error)
	}

	// The failed storyboard can be reopened with its content.
	if rec := env.do(t, http.MethodGet, "/storyboards/"+body.Storyboard.ID.String()+"/edit", nil); rec.Code != http.StatusCreated {
		t.Errorf("reopen failed storyboard: got %d", rec.Code)
	}
}

func TestDraftFinalize_RequiresTitle(t *testing.T) {
	env := newTestEnv(t)

	var d draftBody
	decode(t, env.do(t, http.MethodPost, "/drafts", testBrief()), &d)

	if rec := env.do(t, http.MethodPost, "/drafts/"+d.ID+"/finalize", map[string]any{"title": "  "}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422", rec.Code)
	}
	// The draft survives a validation error.
	if rec := env.do(t, http.MethodGet, "/drafts/"+d.ID, nil); rec.Code != http.StatusOK {
		t.Errorf("draft after failed finalize: got %d, want 200", rec.Code)
	}
}

func TestAIProviderSwitch(t *testing.T) {
	env := newTestEnv(t)

	var resp providerResponse
	decode(t, env.do(t, http.MethodGet, "/ai/provider", nil), &resp)
	if resp.Active != "fake" || len(resp.Available) != 1 {
		t.Errorf("provider = %+v", resp)
	}

	if rec := env.do(t, http.MethodPut, "/ai/provider", map[string]string{"provider": "claude"}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("switch to unconfigured: got %d, want 422", rec.Code)
	}
	rec := env.do(t, http.MethodPut, "/ai/provider", map[string]string{"provider": "gpt-9"})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Unknown provider") {
		t.Errorf("switch to unknown: got %d %s", rec.Code, rec.Body)
	}
	if rec := env.do(t, http.MethodPut, "/ai/provider", map[string]string{"provider": "fake"}); rec.Code != http.StatusOK {
		t.Errorf("switch to fake: got %d", rec.Code)
	}
}

func TestDashboardCounts(t *testing.T) {
	env := newTestEnv(t)

	var body struct {
		Counts map[string]int `json:"counts"`
	}
	rec := env.do(t, http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	decode(t, rec, &body)
	for _, key := range []string{"clients", "creators", "templates", "storyboards"} {
		if _, ok := body.Counts[key]; !ok {
			t.Errorf("missing count %q", key)
		}
	}
}
