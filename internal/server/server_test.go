package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Environment = "development"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.JWTExpiryMinutes = 60
	cfg.Access.AllowedDomains = []string{"childhelpfoundationindia.org"}
	cfg.Access.AdminEmails = []string{"digital@childhelpfoundationindia.org"}

	// No sheet credentials: development falls back to the in-memory store.
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q", body.Status)
	}
	if body.Services["sheets"] != "in_memory" {
		t.Errorf("sheets = %q, want in_memory without credentials", body.Services["sheets"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/v1/projects", "/api/v1/tasks", "/api/v1/users"} {
		resp, err := srv.App().Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("Test %s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestLoginRouteIsOpen(t *testing.T) {
	srv := newTestServer(t)

	// No body: the route must answer 400, not 401, proving it skips auth.
	resp, err := srv.App().Test(httptest.NewRequest("POST", "/api/v1/auth/login", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode == fiber.StatusUnauthorized {
		t.Error("login route is behind the auth middleware")
	}
}
