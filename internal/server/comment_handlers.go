package server

import (
	"strings"

	"framez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest is the comment creation payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// GetComments returns comment rows. A post_id query returns one
// post's thread newest first; a post_ids query returns raw rows for
// several posts; no filter returns everything.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := optionalUintQuery(c, "post_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if postID != 0 {
		thread, err := s.backend.Comments.ListByPost(c.UserContext(), postID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		return c.Status(fiber.StatusOK).JSON(thread)
	}

	postIDs, err := uintListQuery(c, "post_ids")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var comments []models.Comment
	if postIDs == nil {
		comments, err = s.backend.Comments.List(c.UserContext())
	} else {
		comments, err = s.backend.Comments.ListByPosts(c.UserContext(), postIDs)
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

// CreateComment appends a comment to a post. Content that trims to
// empty is rejected.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment cannot be empty"))
	}

	if _, err := s.postRepo.GetByID(c.UserContext(), postID); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}

	user, err := s.users.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Account no longer exists"))
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   user.ID,
		UserName: user.DisplayName,
		Content:  content,
	}
	if err := s.backend.Comments.Insert(c.UserContext(), comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
