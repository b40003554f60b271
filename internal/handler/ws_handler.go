package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/satprep-api/internal/websocket"
)

// WSHandler подключает клиентов к ленте ревью
type WSHandler struct {
	hub *websocket.Hub
}

// NewWSHandler создает новый обработчик WebSocket-соединений
func NewWSHandler(hub *websocket.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// ReviewFeed обновляет соединение до WebSocket
// GET /ws/review-feed
func (h *WSHandler) ReviewFeed(c *gin.Context) {
	websocket.ServeFeed(h.hub, c.Writer, c.Request)
}
