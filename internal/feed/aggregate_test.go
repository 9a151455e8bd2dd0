package feed

import (
	"testing"

	"framez/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCountsAndViewerState(t *testing.T) {
	posts := []models.Post{
		{ID: 2, UserID: 20, Content: "newer"},
		{ID: 1, UserID: 10, Content: "older"},
	}
	likes := []models.Like{
		{PostID: 1, UserID: 10},
		{PostID: 1, UserID: 20},
		{PostID: 2, UserID: 10},
	}
	comments := []models.Comment{
		{PostID: 2, UserID: 10, Content: "nice"},
	}

	out := Aggregate(posts, likes, comments, 10)

	require.Len(t, out, 2)
	// Input order is preserved.
	assert.Equal(t, uint(2), out[0].ID)
	assert.Equal(t, uint(1), out[1].ID)

	assert.Equal(t, 1, out[0].LikesCount)
	assert.Equal(t, 1, out[0].CommentsCount)
	assert.True(t, out[0].UserLiked)

	assert.Equal(t, 2, out[1].LikesCount)
	assert.Equal(t, 0, out[1].CommentsCount)
	assert.True(t, out[1].UserLiked)
}

func TestAggregateOtherViewersLikesDoNotMark(t *testing.T) {
	posts := []models.Post{{ID: 1, UserID: 10}}
	likes := []models.Like{{PostID: 1, UserID: 99}}

	out := Aggregate(posts, likes, nil, 10)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].LikesCount)
	assert.False(t, out[0].UserLiked)
}

func TestAggregateIgnoresOrphanRows(t *testing.T) {
	posts := []models.Post{{ID: 1, UserID: 10}}
	likes := []models.Like{
		{PostID: 1, UserID: 10},
		{PostID: 777, UserID: 10}, // post deleted between fetches
	}
	comments := []models.Comment{
		{PostID: 777, UserID: 10, Content: "into the void"},
	}

	out := Aggregate(posts, likes, comments, 10)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].LikesCount)
	assert.Equal(t, 0, out[0].CommentsCount)
}

func TestAggregateEmptyInputs(t *testing.T) {
	out := Aggregate(nil, nil, nil, 10)
	assert.Empty(t, out)

	posts := []models.Post{{ID: 1}}
	out = Aggregate(posts, nil, nil, 10)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].LikesCount)
	assert.Zero(t, out[0].CommentsCount)
	assert.False(t, out[0].UserLiked)
}

func TestAggregateAnonymousViewer(t *testing.T) {
	posts := []models.Post{{ID: 1}}
	likes := []models.Like{{PostID: 1, UserID: 0}}

	// Viewer 0 never owns likes, even against a zero UserID row.
	out := Aggregate(posts, likes, nil, 0)
	require.Len(t, out, 1)
	assert.False(t, out[0].UserLiked)
	assert.Equal(t, 1, out[0].LikesCount)
}

func TestAggregateIsIdempotent(t *testing.T) {
	posts := []models.Post{{ID: 1}}
	likes := []models.Like{{PostID: 1, UserID: 10}}
	comments := []models.Comment{{PostID: 1, UserID: 10, Content: "x"}}

	once := Aggregate(posts, likes, comments, 10)
	twice := Aggregate(once, likes, comments, 10)
	assert.Equal(t, once, twice, "reaggregating an aggregate must not double counts")
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	posts := []models.Post{{ID: 1}}
	likes := []models.Like{{PostID: 1, UserID: 10}}

	_ = Aggregate(posts, likes, nil, 10)
	assert.Zero(t, posts[0].LikesCount)
	assert.False(t, posts[0].UserLiked)
}
