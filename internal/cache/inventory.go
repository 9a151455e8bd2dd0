package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	FeedKeyName       = "feed:posts"
	UserFeedKeyPrefix = "feed:posts:user:%d"
	ThreadKeyPrefix   = "thread:post:%d"
)

// TTLs are short; the realtime change feed invalidates eagerly, so the cache
// only has to absorb refetch storms between notifications.
const (
	FeedTTL   = 30 * time.Second
	ThreadTTL = 1 * time.Minute
)

func FeedKey() string {
	return FeedKeyName
}

func UserFeedKey(userID uint) string {
	return fmt.Sprintf(UserFeedKeyPrefix, userID)
}

func ThreadKey(postID uint) string {
	return fmt.Sprintf(ThreadKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateFeed drops the global feed snapshot and, when authorUserID is
// non-zero, that author's scoped snapshot as well.
func InvalidateFeed(ctx context.Context, authorUserID uint) {
	Invalidate(ctx, FeedKey())
	if authorUserID != 0 {
		Invalidate(ctx, UserFeedKey(authorUserID))
	}
}

func InvalidateThread(ctx context.Context, postID uint) {
	Invalidate(ctx, ThreadKey(postID))
}
