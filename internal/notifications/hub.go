// Package notifications delivers the change feed to websocket clients.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"framez/internal/middleware"
	"framez/internal/realtime"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per user
	maxConnsPerUser = 12
	// Max total connections
	maxTotalConns = 10000
)

// Hub tracks every connected change-feed client and fans events out to
// all of them. The feed is global, so there is no per-user routing.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
	release    func()
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*Client]struct{})}
}

// Register adds a connection for userID, enforcing per-user and global
// connection limits.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++
	middleware.ActiveWebSockets.Inc()
	return client, nil
}

// UnregisterClient removes a connection. Safe to call twice.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.conns[client.UserID]
	if !ok {
		return
	}
	if _, exists := m[client]; !exists {
		return
	}
	delete(m, client)
	if len(m) == 0 {
		delete(h.conns, client.UserID)
	}
	h.totalConns--
	middleware.ActiveWebSockets.Dec()
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.conns {
		for c := range clients {
			c.TrySend(message)
		}
	}
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConns
}

// StartWiring subscribes the hub to the change stream and forwards
// every event to connected clients as JSON.
func (h *Hub) StartWiring(ctx context.Context, notifier realtime.Notifier) {
	events, release := notifier.Subscribe(ctx)

	h.mu.Lock()
	h.release = release
	h.mu.Unlock()

	go func() {
		for event := range events {
			payload, err := json.Marshal(event)
			if err != nil {
				slog.Error("marshal change event", "error", err)
				continue
			}
			h.BroadcastAll(payload)
		}
	}()
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	if h.release != nil {
		h.release()
		h.release = nil
	}
	for userID, userConns := range h.conns {
		for client := range userConns {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				slog.Debug("close message write failed", "user_id", userID, "error", err)
			}
			if err := client.Conn.Close(); err != nil {
				slog.Debug("websocket close failed", "user_id", userID, "error", err)
			}
		}
	}
	middleware.ActiveWebSockets.Sub(float64(h.totalConns))
	h.conns = make(map[uint]map[*Client]struct{})
	h.totalConns = 0
	h.mu.Unlock()
	return nil
}
