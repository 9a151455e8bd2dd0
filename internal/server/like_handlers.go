package server

import (
	"framez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetLikes returns raw like rows, optionally filtered by a post_ids
// query ("1,2,3").
func (s *Server) GetLikes(c *fiber.Ctx) error {
	postIDs, err := uintListQuery(c, "post_ids")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var likes []models.Like
	if postIDs == nil {
		likes, err = s.backend.Likes.List(c.UserContext())
	} else {
		likes, err = s.backend.Likes.ListByPosts(c.UserContext(), postIDs)
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusOK).JSON(likes)
}

// LikePost records the viewer's like. Liking twice is a no-op.
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if _, err := s.postRepo.GetByID(c.UserContext(), postID); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}

	if err := s.backend.Likes.Insert(c.UserContext(), postID, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Post liked"})
}

// UnlikePost removes the viewer's like. Unliking a post that was never
// liked is a no-op.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.backend.Likes.Delete(c.UserContext(), postID, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Post unliked"})
}
