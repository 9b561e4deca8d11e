// internal/events/hub.go
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is one dashboard notification: a maintenance operation finished and
// connected boards should refetch.
type Event struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Hub fans operation summaries out to connected dashboard clients. Slow
// clients are dropped rather than allowed to block the broadcast loop.
type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex

	broadcast chan Event
	logger    *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 256),
		logger:    logger,
	}
}

// Run drains the broadcast channel until the context ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case ev := <-h.broadcast:
			h.send(ev)
		}
	}
}

// Publish queues an event for broadcast. Never blocks the caller: if the
// queue is full the event is dropped and logged.
func (h *Hub) Publish(event string, payload any) {
	ev := Event{Type: event, Payload: payload, Timestamp: time.Now().UnixMilli()}
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("event queue full, dropping event", zap.String("type", event))
	}
}

// AddClient registers an upgraded connection with the hub.
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

// RemoveClient drops a connection and closes it.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}

func (h *Hub) send(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
