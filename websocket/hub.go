// Package websocket pushes library change events to subscribed UI clients.
package websocket

import (
	"log"
	"sync"

	"resonate/types"
)

// Hub interface defines the methods for managing WebSocket subscribers.
type Hub interface {
	Run()
	BroadcastEvent(ev types.LibraryEvent)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
}

// hub maintains the set of active clients and fans library events out to them
type hub struct {
	clients map[*Client]bool

	// Broadcast channel for library events
	broadcast chan types.LibraryEvent

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan types.LibraryEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("WebSocket client connected (%s)", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected (%s)", client.id)

		case ev := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- ev:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent queues an event for every connected client. Events are
// dropped rather than blocking a mutation when the channel is full.
func (h *hub) BroadcastEvent(ev types.LibraryEvent) {
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("WebSocket broadcast channel full, dropping %s/%s event", ev.Type, ev.Action)
	}
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
