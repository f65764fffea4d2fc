package auth

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/repository"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/sheetstore"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/config"
)

func newLoginApp(t *testing.T) *fiber.App {
	t.Helper()

	store := sheetstore.NewMemory()
	store.Seed("users", [][]string{
		{"email", "name"},
		{"digital@childhelpfoundationindia.org", "Digital Team"},
	})

	users := repository.NewUsers(store, "users")
	gate := NewGate(users,
		[]string{"childhelpfoundationindia.org"},
		[]string{"digital@childhelpfoundationindia.org"},
	)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.JWTExpiryMinutes = 60

	handler := NewHandler(gate, cfg)
	app := fiber.New()
	app.Post("/login", handler.Login)
	return app
}

func TestLoginIssuesToken(t *testing.T) {
	app := newLoginApp(t)

	req := httptest.NewRequest("POST", "/login",
		strings.NewReader(`{"email":"DIGITAL@childhelpfoundationindia.org"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			User struct {
				Email string `json:"email"`
				Name  string `json:"name"`
			} `json:"user"`
			AccessToken string `json:"access_token"`
			Admin       bool   `json:"admin"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !envelope.Success {
		t.Error("success = false")
	}
	if envelope.Data.User.Email != "digital@childhelpfoundationindia.org" {
		t.Errorf("email = %q, want normalized form", envelope.Data.User.Email)
	}
	if envelope.Data.AccessToken == "" {
		t.Error("no access token issued")
	}
	if !envelope.Data.Admin {
		t.Error("admin flag not set for an admin login")
	}
}

func TestLoginRejections(t *testing.T) {
	app := newLoginApp(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"foreign domain", `{"email":"user@gmail.com"}`, fiber.StatusForbidden},
		{"unregistered", `{"email":"stranger@childhelpfoundationindia.org"}`, fiber.StatusUnauthorized},
		{"missing email", `{}`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Test: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}
