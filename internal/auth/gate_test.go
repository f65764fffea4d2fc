package auth

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/repository"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/sheetstore"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()

	store := sheetstore.NewMemory()
	store.Seed("users", [][]string{
		{"email", "name"},
		{"digital@childhelpfoundationindia.org", "Digital Team"},
		{"Analyst@TigerAnalytics.com", "Analyst"},
		{"", "ghost row"},
	})

	users := repository.NewUsers(store, "users")
	return NewGate(users,
		[]string{"childhelpfoundationindia.org", "tigeranalytics.com"},
		[]string{"digital@childhelpfoundationindia.org"},
	)
}

func TestValidateDomain(t *testing.T) {
	gate := newTestGate(t)

	tests := []struct {
		email string
		want  bool
	}{
		{"user@childhelpfoundationindia.org", true},
		{"user@tigeranalytics.com", true},
		{"user@Tigeranalytics.com", true},
		{"USER@TIGERANALYTICS.COM", true},
		{"  user@tigeranalytics.com  ", true},
		{"user@gmail.com", false},
		{"user@", false},
		{"no-at-sign", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := gate.ValidateDomain(tt.email); got != tt.want {
			t.Errorf("ValidateDomain(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidateDomainCaseAgreement(t *testing.T) {
	gate := newTestGate(t)

	a := gate.ValidateDomain("user@Tigeranalytics.com")
	b := gate.ValidateDomain("user@tigeranalytics.com")
	if a != b {
		t.Errorf("case variants disagree: %v vs %v", a, b)
	}
}

func TestAuthenticate(t *testing.T) {
	gate := newTestGate(t)
	ctx := context.Background()

	t.Run("registered user", func(t *testing.T) {
		user, err := gate.Authenticate(ctx, "digital@childhelpfoundationindia.org")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if user.Name != "Digital Team" {
			t.Errorf("name = %q, want %q", user.Name, "Digital Team")
		}
	})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		user, err := gate.Authenticate(ctx, "analyst@tigeranalytics.com")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if user == nil {
			t.Fatal("expected user, got nil")
		}
	})

	t.Run("domain not allowed", func(t *testing.T) {
		_, err := gate.Authenticate(ctx, "user@gmail.com")
		if !errors.Is(err, apperrors.ErrDomainNotAllowed) {
			t.Errorf("err = %v, want ErrDomainNotAllowed", err)
		}
	})

	t.Run("domain ok but unregistered", func(t *testing.T) {
		_, err := gate.Authenticate(ctx, "stranger@tigeranalytics.com")
		if !errors.Is(err, apperrors.ErrUserNotRegistered) {
			t.Errorf("err = %v, want ErrUserNotRegistered", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err1 := gate.Authenticate(ctx, "digital@childhelpfoundationindia.org")
		second, err2 := gate.Authenticate(ctx, "digital@childhelpfoundationindia.org")
		if err1 != nil || err2 != nil {
			t.Fatalf("errs: %v, %v", err1, err2)
		}
		if first.Email != second.Email || first.Name != second.Name {
			t.Errorf("repeated calls disagree: %+v vs %+v", first, second)
		}
	})
}

func TestIsAdmin(t *testing.T) {
	gate := newTestGate(t)

	if !gate.IsAdmin("digital@childhelpfoundationindia.org") {
		t.Error("expected admin")
	}
	if !gate.IsAdmin("DIGITAL@childhelpfoundationindia.org") {
		t.Error("admin check should be case-insensitive")
	}
	// A valid domain and registration do not imply admin.
	if gate.IsAdmin("analyst@tigeranalytics.com") {
		t.Error("registered non-admin reported as admin")
	}
	if gate.IsAdmin("stranger@gmail.com") {
		t.Error("outsider reported as admin")
	}
}
