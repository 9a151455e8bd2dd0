package realtime

import (
	"context"
	"sync"

	"framez/internal/middleware"
)

// Bus is an in-process Notifier for single-binary deployments and
// tests, where no Redis is available. Slow subscribers drop events
// instead of blocking publishers; a dropped event only delays a
// refresh until the next one arrives.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan ChangeEvent
	closed bool
}

// NewBus creates an empty in-process event bus.
func NewBus() *Bus {
	return &Bus{subs: map[int]chan ChangeEvent{}}
}

func (b *Bus) Publish(_ context.Context, event ChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
	middleware.ChangeEventsPublished.WithLabelValues(event.Relation).Inc()
	return nil
}

func (b *Bus) Subscribe(ctx context.Context) (<-chan ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan ChangeEvent, 64)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	release := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}

	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			release()
		}()
	}

	return ch, release
}

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
