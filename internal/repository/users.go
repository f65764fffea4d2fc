package repository

import (
	"context"

	"github.com/jaiminshah2023/Work-Allocation-Tool/common/models"
)

// userAliases maps legacy credential-sheet headers to canonical fields
var userAliases = map[string]string{
	"username":  "name",
	"full_name": "name",
}

// Users reads the credentials sheet. The sheet is provisioned out of band and
// this repository never writes to it.
type Users struct {
	store RowStore
	table string
}

// NewUsers creates the users repository
func NewUsers(store RowStore, table string) *Users {
	return &Users{store: store, table: table}
}

// List returns every registered user
func (r *Users) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.store.Rows(ctx, r.table)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []models.User{}, nil
	}

	cols := buildColumnMap(rows[0], userAliases)
	if err := requireColumns(cols, "email"); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(rows)-1)
	for _, row := range rows[1:] {
		email := cell(row, cols["email"])
		if email == "" {
			continue
		}
		// The name column is optional; without the guard a missing column
		// would resolve to index 0 and read the email cell instead.
		name := ""
		if idx, ok := cols["name"]; ok {
			name = cell(row, idx)
		}
		users = append(users, models.User{
			Email: email,
			Name:  name,
		})
	}
	return users, nil
}

// FindByEmail returns the user matching the email, nil when unregistered.
// Comparison is case-insensitive with whitespace trimmed on both sides.
func (r *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	want := models.NormalizeEmail(email)
	for i := range users {
		if models.NormalizeEmail(users[i].Email) == want {
			return &users[i], nil
		}
	}
	return nil, nil
}
