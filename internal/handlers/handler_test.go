// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Workspaces live in memory; the snapshot tests are skipped when
// PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"lpmanager/internal/ai"
	"lpmanager/internal/database"
	"lpmanager/internal/engine"
	"lpmanager/internal/middleware"
	"lpmanager/internal/models"
	"lpmanager/internal/render"
	"lpmanager/internal/store"
	"lpmanager/internal/workspace"
)

const testSession = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// mockAIProvider implements ai.Provider for handler tests.
type mockAIProvider struct {
	name     string
	response string
	err      error
	prompts  []string
}

func (m *mockAIProvider) Name() string { return m.name }
func (m *mockAIProvider) Generate(_ context.Context, _, userPrompt string) (string, error) {
	m.prompts = append(m.prompts, userPrompt)
	return m.response, m.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "lpmanager")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "lpmanager")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	if _, err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Workspaces *workspace.Manager
	Engine     *engine.Engine
	AI         *ai.Registry
	Provider   *mockAIProvider
	API        *API
	Preview    *Preview
}

// newTestEnv creates handlers over an unseeded in-memory workspace manager
// and an AI registry with a mock provider.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	eng, err := engine.New()
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	workspaces := workspace.NewManager(workspace.Options{})

	provider := &mockAIProvider{name: "test"}
	registry := ai.NewRegistry("test", nil)
	registry.Register("test", provider)

	opts := Options{BrandColor: "#2563EB", MaxHTMLBytes: 64 * 1024}
	return &testEnv{
		Workspaces: workspaces,
		Engine:     eng,
		AI:         registry,
		Provider:   provider,
		API:        NewAPI(workspaces, eng, registry, nil, nil, opts),
		Preview:    NewPreview(renderer, eng, workspaces, opts),
	}
}

// templates returns the template store of the test session's workspace.
func (e *testEnv) templates(t *testing.T) *store.TemplateStore {
	t.Helper()
	ws, err := e.Workspaces.Get(context.Background(), testSession)
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	return ws.Templates
}

// add stores a record directly in the test session's workspace.
func (e *testEnv) add(t *testing.T, rec models.TemplateRecord) *models.TemplateRecord {
	t.Helper()
	saved, err := e.templates(t).Add(&rec)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return saved
}

// newRequest builds a request that belongs to the test session. params are
// chi URL parameters as key/value pairs.
func newRequest(method, target, body string, params ...string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	ctx := middleware.WithSessionID(req.Context(), testSession)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

// serve runs h and returns the recorder.
func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func heroRecord(name string, status models.Status) models.TemplateRecord {
	return models.TemplateRecord{
		DisplayName: name,
		SectionType: models.SectionHero,
		Status:      status,
		Format:      models.FormatJSON,
		Content:     map[string]any{"title": name + " title"},
	}
}
