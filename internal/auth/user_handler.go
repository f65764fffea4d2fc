package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jaiminshah2023/Work-Allocation-Tool/common/dto"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/repository"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/httputil"
)

// UserHandler exposes the registered-user directory, read only. Registration
// itself happens by editing the credentials sheet.
type UserHandler struct {
	users *repository.Users
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *repository.Users) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return httputil.Error(c, err)
	}

	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = dto.UserResponse{Email: u.Email, Name: u.DisplayName()}
	}
	return httputil.Success(c, out)
}
