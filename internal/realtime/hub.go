package realtime

import (
	"encoding/json"
	"sync"
)

// Client is a single websocket connection subscribed to some auctions.
type Client struct {
	ActorID uint
	Send    chan []byte
	hub     *Hub
	mu      sync.Mutex
	closed  bool
}

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	c.mu.Unlock()
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend delivers without blocking. The mutex orders it against Close so a
// concurrent disconnect can never turn a broadcast into a send on a closed
// channel.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub maintains the set of active clients and fans auction events out to
// the ones subscribed to the affected auction.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	byAuction map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		byAuction: make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	for id, m := range h.byAuction {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byAuction, id)
		}
	}
}

// Subscribe adds the client to an auction's fan-out set.
func (h *Hub) Subscribe(c *Client, auctionID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byAuction[auctionID] == nil {
		h.byAuction[auctionID] = make(map[*Client]struct{})
	}
	h.byAuction[auctionID][c] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, auctionID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byAuction[auctionID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byAuction, auctionID)
		}
	}
}

// Broadcast sends an event to every client subscribed to its auction. Slow
// consumers are skipped rather than blocking the fan-out.
func (h *Hub) Broadcast(ev Event) {
	data, _ := json.Marshal(ev)
	h.mu.RLock()
	m := h.byAuction[ev.AuctionID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
