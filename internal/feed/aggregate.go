// Package feed assembles raw post, like and comment rows into the
// annotated timeline the screens render.
package feed

import "framez/internal/models"

// Aggregate decorates posts with like and comment counts and the
// viewer's own like state, in a single pass over each relation. The
// input post order is preserved. Likes and comments that point at a
// post not present in posts are ignored; they belong to rows that
// were deleted between fetches.
func Aggregate(posts []models.Post, likes []models.Like, comments []models.Comment, viewerID uint) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)

	index := make(map[uint]int, len(out))
	for i := range out {
		out[i].LikesCount = 0
		out[i].CommentsCount = 0
		out[i].UserLiked = false
		index[out[i].ID] = i
	}

	for _, like := range likes {
		i, ok := index[like.PostID]
		if !ok {
			continue
		}
		out[i].LikesCount++
		if viewerID != 0 && like.UserID == viewerID {
			out[i].UserLiked = true
		}
	}

	for _, comment := range comments {
		if i, ok := index[comment.PostID]; ok {
			out[i].CommentsCount++
		}
	}

	return out
}
