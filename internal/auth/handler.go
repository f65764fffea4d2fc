package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jaiminshah2023/Work-Allocation-Tool/common/dto"
	"github.com/jaiminshah2023/Work-Allocation-Tool/common/models"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/config"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/httputil"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/middleware"
)

// Handler exposes the authentication endpoints. Login is the only stateful
// edge: it turns a successful gate check into a bearer token so the UI can
// keep its session without re-authenticating on every call.
type Handler struct {
	gate   *Gate
	config *config.Config
}

// NewHandler creates a new auth handler
func NewHandler(gate *Gate, cfg *config.Config) *Handler {
	return &Handler{gate: gate, config: cfg}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email string `json:"email"`
}

// Login authenticates an email against the domain allow-list and the
// credentials sheet, then issues an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if req.Email == "" {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"email": "required",
		})
	}

	user, err := h.gate.Authenticate(c.Context(), req.Email)
	if err != nil {
		return httputil.Error(c, err)
	}

	email := models.NormalizeEmail(user.Email)
	admin := h.gate.IsAdmin(email)

	token, expiresAt, err := middleware.GenerateAccessToken(
		email, user.DisplayName(), admin,
		h.config.Auth.JWTSecret, h.config.Auth.JWTExpiry(),
	)
	if err != nil {
		return httputil.InternalError(c, "failed to issue token")
	}

	return httputil.Success(c, dto.AuthResponse{
		User: dto.UserResponse{
			Email: email,
			Name:  user.DisplayName(),
		},
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Admin:       admin,
	})
}

// Me returns the identity carried by the current session token
func (h *Handler) Me(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return httputil.Unauthorized(c, "")
	}

	return httputil.Success(c, fiber.Map{
		"email": claims.Email,
		"name":  claims.Name,
		"admin": claims.Admin,
	})
}
