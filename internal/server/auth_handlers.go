package server

import (
	"strings"

	"framez/internal/auth"
	"framez/internal/database"
	"framez/internal/models"
	"framez/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SignupRequest is the signup payload.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a token and the user it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup registers a new account and returns a signed token.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if err := validation.ValidateDisplayName(req.DisplayName); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	existing, err := s.users.GetByEmail(c.UserContext(), email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Email already registered"))
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Password:    hashed,
	}
	if err := s.users.Create(c.UserContext(), user); err != nil {
		// The pre-check can race a concurrent signup for the same email.
		if database.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewValidationError("Email already registered"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	token, err := auth.IssueToken(s.config.JWTSecret, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

// Login authenticates an existing account. Wrong password and unknown
// email return the same error.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(c.UserContext(), email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid email or password"))
	}

	token, err := auth.IssueToken(s.config.JWTSecret, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusOK).JSON(AuthResponse{Token: token, User: user})
}

// Logout acknowledges a sign-out. Tokens are stateless; the client
// discards its copy and the short expiry bounds the remaining window.
func (s *Server) Logout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}
