// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/nutrimaster/internal/audit"
	"github.com/tomtom215/nutrimaster/internal/auth"
	"github.com/tomtom215/nutrimaster/internal/authz"
	"github.com/tomtom215/nutrimaster/internal/config"
	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/models"
	"github.com/tomtom215/nutrimaster/internal/nutrition"
	ws "github.com/tomtom215/nutrimaster/internal/websocket"
)

const testPassword = "correct-horse-battery"

// testDBSemaphore serializes in-memory DuckDB instances across tests.
var testDBSemaphore = make(chan struct{}, 1)

// recordingPublisher captures change events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e *models.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) all() []*models.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*models.ChangeEvent(nil), p.events...)
}

type testServer struct {
	t          *testing.T
	db         *database.DB
	handler    *Handler
	server     http.Handler
	publisher  *recordingPublisher
	auditStore *audit.MemoryStore
}

type serverOptions struct {
	authMode  string
	rateLimit bool
	importer  Importer
	wsHub     *ws.Hub
}

// newTestServer builds the full router over an in-memory database with the
// reference data seeded.
func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", SkipIndexes: true})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.SeedReferenceData(context.Background()); err != nil {
		t.Fatalf("SeedReferenceData() error = %v", err)
	}

	if opts.authMode == "" {
		opts.authMode = "none"
	}
	cfg := &config.Config{
		Security: config.SecurityConfig{
			AuthMode:          opts.authMode,
			JWTSecret:         "0123456789abcdef0123456789abcdef",
			SessionTimeout:    time.Hour,
			AdminUsername:     "admin",
			AdminPassword:     testPassword,
			EditorUsername:    "editor",
			EditorPassword:    testPassword + "-e",
			ViewerUsername:    "viewer",
			ViewerPassword:    testPassword + "-v",
			SessionStore:      "memory",
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: !opts.rateLimit,
			CORSOrigins:       []string{"https://dashboard.example.org"},
		},
	}

	authComponents, err := auth.Setup(&cfg.Security, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("auth.Setup() error = %v", err)
	}
	t.Cleanup(func() { _ = authComponents.Close() })

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("authz.NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)

	auditStore := audit.NewMemoryStore(1000)
	auditLogger := audit.NewLogger(auditStore, audit.DefaultConfig())
	t.Cleanup(func() { _ = auditLogger.Close() })

	publisher := &recordingPublisher{}
	handler := NewHandler(db, nutrition.NewService(db), cfg, authComponents, opts.wsHub)
	handler.SetEventPublisher(publisher)
	handler.SetAuditLogger(auditLogger)
	if opts.importer != nil {
		handler.SetImporter(opts.importer)
	}

	router := NewRouter(handler, authComponents.Middleware, authz.NewMiddleware(enforcer), NewChiMiddleware(NewChiMiddlewareConfig(&cfg.Security)))

	return &testServer{
		t:          t,
		db:         db,
		handler:    handler,
		server:     router.SetupChi(),
		publisher:  publisher,
		auditStore: auditStore,
	}
}

// do sends a request with an optional JSON body and cookies.
func (s *testServer) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path string, body []byte) *http.Request {
	return httptest.NewRequest(method, path, bytes.NewReader(body))
}

// serve runs a prepared request through the router.
func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	return rec
}

// envelope is the decoded response with data kept raw.
type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata models.Metadata `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

// decodeData decodes the data field of a success response into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Status != models.StatusSuccess {
		t.Fatalf("status = %q, error = %+v, body = %s", env.Status, env.Error, rec.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decodeEnvelope(t, rec)
	if env.Status != models.StatusError || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q (message %q)", env.Error.Code, code, env.Error.Message)
	}
}

// materialID returns the id of a seeded raw material.
func (s *testServer) materialID(code string) string {
	s.t.Helper()
	rm, err := s.db.GetRawMaterialByCode(context.Background(), code)
	if err != nil {
		s.t.Fatalf("GetRawMaterialByCode(%s) error = %v", code, err)
	}
	return rm.ID
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within 3s")
}
