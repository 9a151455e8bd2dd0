package server

import (
	"framez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile returns the authenticated user's profile.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.users.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", userID))
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// GetUser returns a public profile by ID.
func (s *Server) GetUser(c *fiber.Ctx) error {
	userID, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	user, err := s.backend.Users.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", userID))
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
