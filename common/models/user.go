package models

import "strings"

// User represents a row in the credentials sheet. The sheet is provisioned by
// hand and read-only to this service.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName returns the user's name, falling back to the email prefix
// when the name cell is empty.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// NormalizeEmail lowercases and trims an email for comparison. Sheet cells
// accumulate stray whitespace and mixed casing, so every email comparison in
// the system goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
