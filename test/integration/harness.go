// Package integration boots the full HTTP stack against a mock expense
// backend and drives it over real sockets. Login, form building, record
// submission, and workflow actions travel the same wire path production
// traffic does, including the backend client and its envelope decoding.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/config"
	"github.com/kamau/expensa/internal/transport"
	"github.com/kamau/expensa/internal/workflow"
)

// TestHarness owns one running server instance and its collaborators.
type TestHarness struct {
	Server   *httptest.Server
	Backend  *MockBackend
	Sessions *transport.Sessions
	Guard    *workflow.MemoryTransitionGuard
}

// HarnessOption mutates the configuration before the stack is assembled.
type HarnessOption func(*config.Config)

// NewTestHarness starts a mock backend, loads the organization
// configuration from it, and serves the full router over HTTP. Everything
// shuts down via t.Cleanup.
func NewTestHarness(t *testing.T, opts ...HarnessOption) *TestHarness {
	t.Helper()
	t.Setenv("EXPENSA_SESSION_SECRET", "integration-secret")

	backend := NewMockBackend(t)
	t.Cleanup(backend.Close)

	cfg := config.Defaults()
	cfg.Backend.BaseURL = backend.URL()
	cfg.Observability.Metrics.Enabled = false
	for _, opt := range opts {
		opt(cfg)
	}

	logger := zap.NewNop()
	caller := client.NewCaller(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)

	org, err := client.NewOrganizationService(caller).Details(context.Background())
	if err != nil {
		t.Fatalf("loading organization from backend: %v", err)
	}

	sessions, err := transport.NewSessions(cfg.Session)
	if err != nil {
		t.Fatalf("building sessions: %v", err)
	}

	guard := workflow.NewMemoryTransitionGuard()
	router := transport.NewRouter(transport.Dependencies{
		Config:       cfg,
		Logger:       logger,
		Sessions:     sessions,
		Auth:         client.NewAuthService(caller),
		Expenses:     client.NewExpenseService(caller),
		Reports:      client.NewReportService(caller),
		Organization: org,
		Engine:       workflow.NewEngine(guard, transport.RequestConfirmer{}, logger),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestHarness{
		Server:   server,
		Backend:  backend,
		Sessions: sessions,
		Guard:    guard,
	}
}

// Login authenticates against the mock backend and returns the session
// token.
func (h *TestHarness) Login(t *testing.T) string {
	t.Helper()

	resp := h.POST(t, "/ui/auth/login", "", map[string]string{
		"organizationName": "acme",
		"memberName":       "amira",
		"password":         "secret",
	})
	AssertStatus(t, resp, http.StatusOK)

	var body struct {
		Token string `json:"token"`
	}
	ParseJSON(t, resp, &body)
	if body.Token == "" {
		t.Fatal("login returned an empty token")
	}
	return body.Token
}

// GET issues a GET request; an empty token leaves the request anonymous.
func (h *TestHarness) GET(t *testing.T, path, token string) *http.Response {
	t.Helper()
	return h.do(t, http.MethodGet, path, token, nil)
}

// POST issues a POST request with a JSON body.
func (h *TestHarness) POST(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()
	return h.do(t, http.MethodPost, path, token, body)
}

// PUT issues a PUT request with a JSON body.
func (h *TestHarness) PUT(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()
	return h.do(t, http.MethodPut, path, token, body)
}

func (h *TestHarness) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, h.Server.URL+path, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// ParseJSON decodes and closes a response body.
func ParseJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

// ReadBody drains and closes a response body.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return string(data)
}

// AssertStatus fails the test when the response status differs, including
// the body in the failure for context.
func AssertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d; body: %s", resp.StatusCode, want, ReadBody(t, resp))
	}
}

// errorBody is the API error envelope.
type errorBody struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		ServerCode string `json:"serverCode"`
	} `json:"error"`
}
