package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"lpmanager/internal/ai"
	"lpmanager/internal/engine"
	"lpmanager/internal/models"
	"lpmanager/internal/workspace"
)

const validHTMLDoc = `<!DOCTYPE html><html><head><title>x</title></head><body><section><h1>Hi</h1></section><script>alert(1)</script></body></html>`

// startDraft begins a draft in the test session and fails the test on error.
func startDraft(t *testing.T, env *testEnv, body string) {
	t.Helper()
	rr := serve(env.API.StartDraft, newRequest(http.MethodPost, "/api/draft", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("start draft: status = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestStartDraft(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"json draft", `{"display_name":"Hero A","section_type":"hero","tags":"saas, b2b"}`, http.StatusCreated},
		{"html draft", `{"display_name":"Hero A","section_type":"hero","format":"html"}`, http.StatusCreated},
		{"missing name", `{"section_type":"hero"}`, http.StatusBadRequest},
		{"unknown section", `{"display_name":"A","section_type":"carousel"}`, http.StatusBadRequest},
		{"unknown format", `{"display_name":"A","section_type":"hero","format":"yaml"}`, http.StatusBadRequest},
		{"name too long", `{"display_name":"` + strings.Repeat("a", 201) + `","section_type":"hero"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rr := serve(env.API.StartDraft, newRequest(http.MethodPost, "/api/draft", tt.body))
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestDraftWithoutDraft(t *testing.T) {
	env := newTestEnv(t)
	cases := map[string]http.HandlerFunc{
		"get":      env.API.GetDraft,
		"prompt":   env.API.DraftPrompt,
		"json":     env.API.DraftJSON,
		"html":     env.API.DraftHTML,
		"generate": env.API.GenerateDraft,
		"commit":   env.API.CommitDraft,
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			rr := serve(h, newRequest(http.MethodPost, "/api/draft", `{"title":"x"}`))
			if rr.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404 (body %s)", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestDraftPrompt(t *testing.T) {
	env := newTestEnv(t)
	startDraft(t, env, `{"display_name":"Acme hero","section_type":"hero"}`)

	first := serve(env.API.DraftPrompt, newRequest(http.MethodGet, "/api/draft/prompt", ""))
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d", first.Code)
	}
	if ct := first.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(first.Body.String(), "Acme hero") {
		t.Errorf("prompt does not mention the template name:\n%s", first.Body.String())
	}
	second := serve(env.API.DraftPrompt, newRequest(http.MethodGet, "/api/draft/prompt", ""))
	if first.Body.String() != second.Body.String() {
		t.Error("prompt is not deterministic")
	}
}

func TestDraftJSONPasteAndCommit(t *testing.T) {
	env := newTestEnv(t)
	startDraft(t, env, `{"display_name":"Hero A","section_type":"hero"}`)

	paste := "```json\n{\"content\":{\"title\":\"Grow faster\"},\"colors\":{\"primary\":\"#2563EB\"}}\n```"
	rr := serve(env.API.DraftJSON, newRequest(http.MethodPost, "/api/draft/json", paste))
	if rr.Code != http.StatusOK {
		t.Fatalf("paste: status = %d, body %s", rr.Code, rr.Body.String())
	}
	got := decode[draftResponse](t, rr)
	if got.Draft.Content["title"] != "Grow faster" || got.Draft.Colors.Primary != "#2563EB" {
		t.Errorf("paste not merged: %+v", got.Draft)
	}

	rr = serve(env.API.CommitDraft, newRequest(http.MethodPost, "/api/draft/commit", `{"approve":true}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("commit: status = %d, body %s", rr.Code, rr.Body.String())
	}
	saved := decode[models.TemplateRecord](t, rr)
	if saved.Status != models.StatusApproved || saved.ID == "" {
		t.Errorf("committed record = %+v", saved)
	}
	if env.templates(t).Count() != 1 {
		t.Error("committed record not stored")
	}
	if rr := serve(env.API.GetDraft, newRequest(http.MethodGet, "/api/draft", "")); rr.Code != http.StatusNotFound {
		t.Errorf("draft not cleared after commit: status = %d", rr.Code)
	}
}

func TestDraftJSONRejectsNonObject(t *testing.T) {
	env := newTestEnv(t)
	startDraft(t, env, `{"display_name":"Hero A","section_type":"hero"}`)

	for _, body := range []string{"", "[1,2]", "not json"} {
		rr := serve(env.API.DraftJSON, newRequest(http.MethodPost, "/api/draft/json", body))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("paste %q: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestDraftHTMLPaste(t *testing.T) {
	env := newTestEnv(t)
	startDraft(t, env, `{"display_name":"Hero A","section_type":"hero","format":"html"}`)

	rr := serve(env.API.DraftHTML, newRequest(http.MethodPost, "/api/draft/html", validHTMLDoc))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	got := decode[draftResponse](t, rr)
	if got.Report == nil {
		t.Fatal("response has no sanitize report")
	}
	if strings.Contains(got.Draft.HTMLContent, "<script") {
		t.Errorf("draft html not sanitized: %s", got.Draft.HTMLContent)
	}

	rr = serve(env.API.DraftHTML, newRequest(http.MethodPost, "/api/draft/html", "<p>fragment</p>"))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("fragment: status = %d, want 400", rr.Code)
	}
}

func TestDraftHTMLTooLarge(t *testing.T) {
	env := newTestEnv(t)
	startDraft(t, env, `{"display_name":"Hero A","section_type":"hero","format":"html"}`)

	doc := "<!DOCTYPE html><html><body>" + strings.Repeat("a", 70*1024) + "</body></html>"
	rr := serve(env.API.DraftHTML, newRequest(http.MethodPost, "/api/draft/html", doc))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rr.Code)
	}
}

func TestCommitDraftValidation(t *testing.T) {
	env := newTestEnv(t)
	startDraft(t, env, `{"display_name":"Hero A","section_type":"hero","format":"html"}`)

	// An html draft without a document cannot be committed.
	rr := serve(env.API.CommitDraft, newRequest(http.MethodPost, "/api/draft/commit", ""))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty html draft: status = %d, want 400", rr.Code)
	}

	err := env.Workspaces.Update(t.Context(), testSession, func(ws *workspace.Workspace) error {
		d := ws.Draft()
		d.Format = models.FormatJSON
		d.Colors.Primary = "red; background: url(x)"
		ws.SetDraft(d)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	rr = serve(env.API.CommitDraft, newRequest(http.MethodPost, "/api/draft/commit", ""))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad colour: status = %d, want 422", rr.Code)
	}
	if got := decode[errorResponse](t, rr); got.Fields["colors.primary"] == "" {
		t.Errorf("fields = %v, want colors.primary", got.Fields)
	}
}

func TestDiscardDraft(t *testing.T) {
	env := newTestEnv(t)
	startDraft(t, env, `{"display_name":"Hero A","section_type":"hero"}`)

	if rr := serve(env.API.DiscardDraft, newRequest(http.MethodDelete, "/api/draft", "")); rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr := serve(env.API.GetDraft, newRequest(http.MethodGet, "/api/draft", "")); rr.Code != http.StatusNotFound {
		t.Errorf("draft still present: status = %d", rr.Code)
	}
}

func TestGenerateDraft(t *testing.T) {
	t.Run("json answer", func(t *testing.T) {
		env := newTestEnv(t)
		env.Provider.response = "```json\n{\"title\":\"Generated\"}\n```"
		startDraft(t, env, `{"display_name":"Hero A","section_type":"hero"}`)

		rr := serve(env.API.GenerateDraft, newRequest(http.MethodPost, "/api/draft/generate", ""))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
		}
		got := decode[draftResponse](t, rr)
		if got.Provider != "test" || got.Draft.Content["title"] != "Generated" {
			t.Errorf("response = %+v", got)
		}
		if len(env.Provider.prompts) != 1 || !strings.Contains(env.Provider.prompts[0], "Hero A") {
			t.Errorf("provider prompts = %q", env.Provider.prompts)
		}
	})

	t.Run("html answer", func(t *testing.T) {
		env := newTestEnv(t)
		env.Provider.response = validHTMLDoc
		startDraft(t, env, `{"display_name":"Hero A","section_type":"hero","format":"html"}`)

		rr := serve(env.API.GenerateDraft, newRequest(http.MethodPost, "/api/draft/generate", ""))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
		}
		if got := decode[draftResponse](t, rr); got.Report == nil || strings.Contains(got.Draft.HTMLContent, "<script") {
			t.Errorf("response = %+v", got)
		}
	})

	t.Run("unusable answer", func(t *testing.T) {
		env := newTestEnv(t)
		env.Provider.response = "Sorry, I cannot help with that."
		startDraft(t, env, `{"display_name":"Hero A","section_type":"hero"}`)

		rr := serve(env.API.GenerateDraft, newRequest(http.MethodPost, "/api/draft/generate", ""))
		if rr.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rr.Code)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		env := newTestEnv(t)
		env.Provider.err = &ai.APIError{Provider: "test", Status: 500, Body: "boom"}
		startDraft(t, env, `{"display_name":"Hero A","section_type":"hero"}`)

		rr := serve(env.API.GenerateDraft, newRequest(http.MethodPost, "/api/draft/generate", ""))
		if rr.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rr.Code)
		}
	})

	t.Run("no provider", func(t *testing.T) {
		env := newTestEnv(t)
		api := NewAPI(env.Workspaces, env.Engine, ai.NewRegistry("openai", nil), nil, nil, Options{})
		startDraft(t, env, `{"display_name":"Hero A","section_type":"hero"}`)

		rr := serve(api.GenerateDraft, newRequest(http.MethodPost, "/api/draft/generate", ""))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rr.Code)
		}
	})
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{engine.ErrNotApproved, http.StatusBadRequest},
		{ai.ErrNoProvider, http.StatusServiceUnavailable},
		{fmt.Errorf("claude: %w", ai.ErrTruncated), http.StatusBadGateway},
		{workspace.ErrNoSession, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := errorStatus(tt.err); got != tt.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
