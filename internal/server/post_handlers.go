package server

import (
	"strings"

	"framez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the post creation payload.
type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// GetPosts returns raw post rows, newest first. An optional user_id
// query restricts the listing to one author.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	userID, err := optionalUintQuery(c, "user_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var posts []models.Post
	if userID != 0 {
		posts, err = s.backend.Posts.ListByUser(c.UserContext(), userID)
	} else {
		posts, err = s.backend.Posts.List(c.UserContext())
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// CreatePost inserts a post authored by the authenticated user. The
// author's name and email are snapshotted from the users table, never
// taken from the request.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Post needs text or an image"))
	}

	user, err := s.users.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Account no longer exists"))
	}

	post := &models.Post{
		UserID:    user.ID,
		UserName:  user.DisplayName,
		UserEmail: user.Email,
		Content:   content,
		ImageURL:  req.ImageURL,
	}
	if err := s.backend.Posts.Insert(c.UserContext(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost removes a post. Only the author may delete it; the
// post's likes and comments go with it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	postID, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}
	if post.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only the author can delete a post"))
	}

	if err := s.backend.Posts.Delete(c.UserContext(), postID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Post deleted"})
}
