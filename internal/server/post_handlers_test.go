package server

import (
	"net/http"
	"testing"

	"framez/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	_, app := newTestServer(t)
	token, user := signupUser(t, app, "maya@example.com", "Maya")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{
		"content": "  hello feed  ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	post := decodeBody[models.Post](t, resp)
	assert.NotZero(t, post.ID)
	assert.Equal(t, user.ID, post.UserID)
	assert.Equal(t, "hello feed", post.Content)
	// Author fields come from the users table, not the request body.
	assert.Equal(t, "Maya", post.UserName)
	assert.Equal(t, "maya@example.com", post.UserEmail)
}

func TestCreatePostEmpty(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := signupUser(t, app, "maya@example.com", "Maya")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{
		"content": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	all := doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, all.StatusCode)
	assert.Empty(t, decodeBody[[]models.Post](t, all))
}

func TestCreatePostImageOnly(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := signupUser(t, app, "maya@example.com", "Maya")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{
		"image_url": "http://localhost:8480/storage/1_1700000000000.jpg",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGetPosts(t *testing.T) {
	s, app := newTestServer(t)
	tokenA, userA := signupUser(t, app, "maya@example.com", "Maya")
	tokenB, _ := signupUser(t, app, "theo@example.com", "Theo")

	first := createPostHTTP(t, app, tokenA, "first")
	second := createPostHTTP(t, app, tokenB, "second")

	// Force distinct timestamps; sqlite timestamps can collide within a test.
	require.NoError(t, s.db.Model(&models.Post{}).Where("id = ?", first.ID).
		Update("created_at", "2026-08-01 10:00:00").Error)
	require.NoError(t, s.db.Model(&models.Post{}).Where("id = ?", second.ID).
		Update("created_at", "2026-08-02 10:00:00").Error)

	resp := doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	posts := decodeBody[[]models.Post](t, resp)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	byUser := doJSON(t, app, http.MethodGet, "/api/posts?user_id="+uintStr(userA.ID), "", nil)
	require.Equal(t, http.StatusOK, byUser.StatusCode)
	mine := decodeBody[[]models.Post](t, byUser)
	require.Len(t, mine, 1)
	assert.Equal(t, userA.ID, mine[0].UserID)
}

func TestDeletePost(t *testing.T) {
	s, app := newTestServer(t)
	tokenA, _ := signupUser(t, app, "maya@example.com", "Maya")
	tokenB, _ := signupUser(t, app, "theo@example.com", "Theo")

	post := createPostHTTP(t, app, tokenA, "soon gone")

	like := doJSON(t, app, http.MethodPost, "/api/posts/"+uintStr(post.ID)+"/like", tokenB, nil)
	require.Equal(t, http.StatusOK, like.StatusCode)
	comment := doJSON(t, app, http.MethodPost, "/api/posts/"+uintStr(post.ID)+"/comments", tokenB,
		map[string]string{"content": "nice"})
	require.Equal(t, http.StatusCreated, comment.StatusCode)

	// Only the author may delete.
	forbidden := doJSON(t, app, http.MethodDelete, "/api/posts/"+uintStr(post.ID), tokenB, nil)
	assert.Equal(t, http.StatusForbidden, forbidden.StatusCode)

	deleted := doJSON(t, app, http.MethodDelete, "/api/posts/"+uintStr(post.ID), tokenA, nil)
	assert.Equal(t, http.StatusOK, deleted.StatusCode)

	// Likes and comments went with the post.
	var likeCount, commentCount int64
	require.NoError(t, s.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	require.NoError(t, s.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	assert.Zero(t, likeCount)
	assert.Zero(t, commentCount)
}

func TestDeletePostNotFound(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := signupUser(t, app, "maya@example.com", "Maya")

	resp := doJSON(t, app, http.MethodDelete, "/api/posts/999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
