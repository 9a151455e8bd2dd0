package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"sync"

	"framez/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier fans change events out over Redis pub/sub so that every
// gateway instance sees mutations committed by any of them.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier creates a notifier backed by the given Redis client.
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Publish(ctx context.Context, event ChangeEvent) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, channelFor(event.Relation), payload).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("publish").Inc()
		return err
	}
	middleware.ChangeEventsPublished.WithLabelValues(event.Relation).Inc()
	return nil
}

// Subscribe listens on every realtime:* channel. Events that fail to
// decode are logged and skipped rather than tearing the stream down.
func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan ChangeEvent, func()) {
	out := make(chan ChangeEvent, 64)
	if n.rdb == nil {
		close(out)
		return out, func() {}
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := n.rdb.PSubscribe(subCtx, "realtime:*")
	ch := sub.Channel()

	var once sync.Once
	release := func() {
		once.Do(func() {
			cancel()
			_ = sub.Close()
		})
	}

	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in realtime subscriber", "panic", r, "stack", string(debug.Stack()))
			}
		}()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.Warn("dropping malformed change event", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- event:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return out, release
}
