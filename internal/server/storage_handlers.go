package server

import (
	"fmt"
	"strings"

	"framez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadObject stores the request body under the given key. Keys are
// namespaced by uploader: a user may only write keys starting with
// "<their id>_".
func (s *Server) UploadObject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	key := c.Params("key")

	prefix := fmt.Sprintf("%d_", userID)
	if !strings.HasPrefix(key, prefix) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Storage key must be namespaced to your account"))
	}

	if err := s.store.Upload(c.UserContext(), key, c.Body(), c.Get(fiber.HeaderContentType)); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key": key,
		"url": s.store.PublicURL(key),
	})
}

// ServeObject streams a stored object back to the client.
func (s *Server) ServeObject(c *fiber.Ctx) error {
	key := c.Params("key")

	path, err := s.store.Open(key)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "NOT_FOUND" {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return c.SendFile(path)
}
