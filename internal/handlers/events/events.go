// internal/handlers/events/events.go
package events

import (
	"net/http"

	"leadflow-service/internal/events"
	"leadflow-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventsHandler struct {
	hub    *events.Hub
	logger *zap.Logger
}

func NewEventsHandler(hub *events.Hub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, logger: logger}
}

// HandleConnection upgrades the request and subscribes the client to the
// dashboard event feed. The feed is broadcast-only: incoming frames are
// drained and discarded until the client hangs up.
func (h *EventsHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		response.Error(c, http.StatusBadRequest, "websocket upgrade failed", err)
		return
	}

	h.hub.AddClient(conn)

	go func() {
		defer h.hub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
