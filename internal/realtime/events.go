// Package realtime distributes row change events to live feed subscribers.
package realtime

import (
	"context"
	"fmt"
)

// Relation names the tables whose row changes are broadcast.
const (
	RelationPosts    = "posts"
	RelationLikes    = "likes"
	RelationComments = "comments"
)

// Action is the kind of row change.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// ChangeEvent describes one committed row change. It carries only
// identifiers; subscribers refetch whatever rows they care about.
type ChangeEvent struct {
	Relation string `json:"relation"`
	Action   Action `json:"action"`
	PostID   uint   `json:"post_id,omitempty"`
	RowID    uint   `json:"row_id,omitempty"`
}

// Notifier publishes change events and hands out subscriptions.
// Subscribe returns a receive channel and a release func. The release
// func must be called exactly once; after it returns the channel is
// closed and no more events are delivered.
type Notifier interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, func())
}

func channelFor(relation string) string {
	return fmt.Sprintf("realtime:%s", relation)
}
