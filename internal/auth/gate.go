// Package auth decides who may use the system and with which privilege.
// Identity is an email: the domain must be allow-listed and the address must
// exist in the credentials sheet. Admin privilege is a second, fixed
// allow-list held in configuration, never in the row store.
package auth

import (
	"context"
	"strings"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
	"github.com/jaiminshah2023/Work-Allocation-Tool/common/models"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/repository"
)

// Gate performs the authentication and authorization checks. It holds no
// session state; every call stands alone.
type Gate struct {
	users   *repository.Users
	domains []string
	admins  map[string]struct{}
}

// NewGate creates a gate from the configured allow-lists
func NewGate(users *repository.Users, allowedDomains, adminEmails []string) *Gate {
	domains := make([]string, 0, len(allowedDomains))
	for _, d := range allowedDomains {
		domains = append(domains, strings.ToLower(strings.TrimSpace(d)))
	}

	admins := make(map[string]struct{}, len(adminEmails))
	for _, a := range adminEmails {
		admins[models.NormalizeEmail(a)] = struct{}{}
	}

	return &Gate{users: users, domains: domains, admins: admins}
}

// ValidateDomain reports whether the part after "@" matches an allow-listed
// domain. The comparison is case-insensitive throughout.
func (g *Gate) ValidateDomain(email string) bool {
	_, domain, found := strings.Cut(models.NormalizeEmail(email), "@")
	if !found || domain == "" {
		return false
	}
	for _, d := range g.domains {
		if domain == d {
			return true
		}
	}
	return false
}

// Authenticate validates the email's domain and looks the address up in the
// credentials sheet. Idempotent: the same email against an unchanged user
// table always yields the same result.
func (g *Gate) Authenticate(ctx context.Context, email string) (*models.User, error) {
	if !g.ValidateDomain(email) {
		return nil, apperrors.DomainNotAllowed(email)
	}

	user, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.UserNotRegistered(email)
	}
	return user, nil
}

// IsAdmin reports whether the email exactly matches an entry in the admin
// allow-list. Passing ValidateDomain does not imply admin.
func (g *Gate) IsAdmin(email string) bool {
	_, ok := g.admins[models.NormalizeEmail(email)]
	return ok
}
