package main

import (
	"context"
	"sync/atomic"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/metrics"
	"github.com/google/uuid"
)

// Hub maintains active WebSocket connections grouped by the parent collection
// they watch. Only the Run goroutine touches the connection map.
type Hub struct {
	// Map: parent id → clients watching it
	connections map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}

	count atomic.Int64
	log   *logger.Logger
}

// Message is one event payload for the watchers of a parent
type Message struct {
	Parent uuid.UUID
	Data   []byte
}

// NewHub creates a new Hub instance
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Message, 256),
		done:        make(chan struct{}),
		log:         log,
	}
}

// Run owns the connection map until ctx is cancelled, then closes every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("hub started")
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.broadcastToParent(message)

		case <-ctx.Done():
			for _, clients := range h.connections {
				for client := range clients {
					h.removeClient(client)
				}
			}
			h.log.Info("hub stopped")
			return
		}
	}
}

// Register adds client to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client from the hub; a no-op once the hub has stopped
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues data for every watcher of parent
func (h *Hub) Broadcast(parent uuid.UUID, data []byte) {
	select {
	case h.broadcast <- &Message{Parent: parent, Data: data}:
	case <-h.done:
	}
}

// Count returns the number of open connections
func (h *Hub) Count() int {
	return int(h.count.Load())
}

func (h *Hub) registerClient(client *Client) {
	clients, ok := h.connections[client.parent]
	if !ok {
		clients = make(map[*Client]struct{})
		h.connections[client.parent] = clients
	}
	clients[client] = struct{}{}
	h.setCount(1)

	h.log.Debug("client registered", "parent_id", client.parent, "watchers", len(clients))
}

// removeClient drops client and closes its send channel. Safe to call for a
// client that was already removed.
func (h *Hub) removeClient(client *Client) {
	clients := h.connections[client.parent]
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.connections, client.parent)
	}
	h.setCount(-1)

	h.log.Debug("client unregistered", "parent_id", client.parent, "watchers", len(clients))
}

func (h *Hub) broadcastToParent(message *Message) {
	clients := h.connections[message.Parent]
	if len(clients) == 0 {
		return
	}

	for client := range clients {
		select {
		case client.send <- message.Data:
		default:
			h.log.Warn("client send buffer full, dropping connection", "parent_id", client.parent)
			h.removeClient(client)
		}
	}
}

func (h *Hub) setCount(delta int64) {
	metrics.FanoutConnections(int(h.count.Add(delta)))
}
