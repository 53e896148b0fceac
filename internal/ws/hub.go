package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub is the in-process registry of live notification connections, keyed by
// user id. Services publish through NotifyUser after their transaction
// commits; the hub never blocks the publisher. A client whose send buffer is
// full is dropped instead.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

// Register adds a connected client to the fanout set for its user.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	Connections.Inc()
	log.Printf("Hub.Register: user=%d connections=%d", c.UserID, len(set))
}

// Unregister removes a client and closes its send channel. Safe to call more
// than once for the same client; only the first call closes the channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.Send)
	Connections.Dec()
	log.Printf("Hub.Unregister: user=%d connections=%d", c.UserID, len(set))
}

// NotifyUser sends one typed message to every live connection of a user.
// Implements the notifier the services publish through. Connections that
// cannot keep up lose their slot; the write pump notices the closed channel
// and shuts the socket down.
func (h *Hub) NotifyUser(userID int64, msgType string, payload any) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("Hub.NotifyUser: marshal failed type=%s: %v", msgType, err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.Send <- data:
		default:
			log.Printf("Hub.NotifyUser: user=%d send buffer full, dropping client", userID)
			DroppedClients.Inc()
			h.Unregister(c)
		}
	}
}

// ConnectionCount returns the number of live connections for a user.
func (h *Hub) ConnectionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
