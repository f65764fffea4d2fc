package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	// Load reads these directly; blank them so defaults are what we observe.
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "ALLOWED_DOMAINS",
		"ADMIN_EMAILS", "JWT_SECRET", "JWT_EXPIRY_MINUTES", "REDIS_URL",
		"SHEETS_CREDENTIALS_FILE", "SHEETS_CREDENTIALS_JSON",
		"USERS_SHEET_ID", "PROJECTS_SHEET_ID", "TASKS_SHEET_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The sheets tuning defaults are load-bearing: a zero cache TTL disables
	// the read cache and a zero interval disables call pacing entirely.
	if cfg.Sheets.CacheTTL != 60*time.Second {
		t.Errorf("CacheTTL = %v, want 60s", cfg.Sheets.CacheTTL)
	}
	if cfg.Sheets.CallInterval != 1200*time.Millisecond {
		t.Errorf("CallInterval = %v, want 1.2s", cfg.Sheets.CallInterval)
	}
	if cfg.Sheets.AppendRetries != 5 {
		t.Errorf("AppendRetries = %d, want 5", cfg.Sheets.AppendRetries)
	}

	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Server.AllowedOrigins == "" {
		t.Error("AllowedOrigins default missing")
	}

	if len(cfg.Access.AllowedDomains) == 0 {
		t.Error("AllowedDomains default missing")
	}
	if len(cfg.Access.AdminEmails) == 0 {
		t.Error("AdminEmails default missing")
	}
	if cfg.Auth.JWTExpiryMinutes != 720 {
		t.Errorf("JWTExpiryMinutes = %d, want 720", cfg.Auth.JWTExpiryMinutes)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("ALLOWED_DOMAINS", "a.org, b.org")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.Environment != "staging" {
		t.Errorf("Environment = %q, want staging", cfg.Server.Environment)
	}
	if len(cfg.Access.AllowedDomains) != 2 || cfg.Access.AllowedDomains[0] != "a.org" {
		t.Errorf("AllowedDomains = %v", cfg.Access.AllowedDomains)
	}
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := Load(); err == nil {
		t.Error("production load without JWT secret and credentials should fail")
	}
}
