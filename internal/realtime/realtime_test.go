package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, release := bus.Subscribe(context.Background())
	defer release()

	event := ChangeEvent{Relation: RelationLikes, Action: ActionInsert, PostID: 7, RowID: 42}
	require.NoError(t, bus.Publish(context.Background(), event))

	select {
	case got := <-ch:
		assert.Equal(t, event, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusReleaseStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, release := bus.Subscribe(context.Background())
	release()
	release() // second call must be safe

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after release")

	require.NoError(t, bus.Publish(context.Background(), ChangeEvent{Relation: RelationPosts, Action: ActionInsert}))
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	_, release := bus.Subscribe(context.Background())
	defer release()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = bus.Publish(context.Background(), ChangeEvent{Relation: RelationComments, Action: ActionInsert, RowID: uint(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestBusCloseClosesSubscribers(t *testing.T) {
	bus := NewBus()
	ch, _ := bus.Subscribe(context.Background())
	bus.Close()

	_, ok := <-ch
	assert.False(t, ok)

	// Subscribing after close yields an already-closed channel.
	ch2, release := bus.Subscribe(context.Background())
	defer release()
	_, ok = <-ch2
	assert.False(t, ok)
}

func TestRedisNotifierRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	notifier := NewRedisNotifier(rdb)
	ch, release := notifier.Subscribe(context.Background())
	defer release()

	event := ChangeEvent{Relation: RelationPosts, Action: ActionDelete, PostID: 3, RowID: 3}

	// miniredis delivers to subscribers registered before the publish,
	// but the subscriber goroutine needs a moment to attach.
	require.Eventually(t, func() bool {
		require.NoError(t, notifier.Publish(context.Background(), event))
		select {
		case got := <-ch:
			assert.Equal(t, event, got)
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRedisNotifierNilClient(t *testing.T) {
	notifier := NewRedisNotifier(nil)
	require.NoError(t, notifier.Publish(context.Background(), ChangeEvent{Relation: RelationLikes}))

	ch, release := notifier.Subscribe(context.Background())
	defer release()
	_, ok := <-ch
	assert.False(t, ok)
}
