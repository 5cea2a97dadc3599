package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"resonate/websocket"
)

// EventHandler upgrades WebSocket connections subscribed to library events
type EventHandler struct {
	hub websocket.Hub
}

// NewEventHandler creates a new event handler
func NewEventHandler(hub websocket.Hub) *EventHandler {
	return &EventHandler{hub: hub}
}

// Subscribe upgrades the connection and registers it with the hub
func (h *EventHandler) Subscribe(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.RegisterClient(client)
	client.StartPumps()
}
