package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(actorID uint) *Client {
	return &Client{ActorID: actorID, Send: make(chan []byte, 4)}
}

func TestBroadcastReachesSubscribersOnly(t *testing.T) {
	hub := NewHub()
	subscribed := newTestClient(1)
	other := newTestClient(2)
	hub.Register(subscribed)
	hub.Register(other)
	hub.Subscribe(subscribed, 10)
	hub.Subscribe(other, 11)

	hub.Broadcast(Event{Type: EventBidPlaced, AuctionID: 10, Amount: 150})

	require.Len(t, subscribed.Send, 1)
	assert.Empty(t, other.Send)

	var ev Event
	require.NoError(t, json.Unmarshal(<-subscribed.Send, &ev))
	assert.Equal(t, uint(10), ev.AuctionID)
	assert.Equal(t, int64(150), ev.Amount)
}

func TestBroadcastSkipsSlowConsumer(t *testing.T) {
	hub := NewHub()
	slow := &Client{ActorID: 1, Send: make(chan []byte)} // unbuffered, nobody reading
	fast := newTestClient(2)
	hub.Register(slow)
	hub.Register(fast)
	hub.Subscribe(slow, 10)
	hub.Subscribe(fast, 10)

	// Must not block on the slow client.
	hub.Broadcast(Event{Type: EventBidPlaced, AuctionID: 10, Amount: 200})

	assert.Len(t, fast.Send, 1)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	c := newTestClient(1)
	hub.Register(c)
	hub.Subscribe(c, 10)
	hub.Unsubscribe(c, 10)

	hub.Broadcast(Event{Type: EventAuctionClosed, AuctionID: 10, Status: "SOLD"})
	assert.Empty(t, c.Send)
}

func TestBroadcastRacingCloseDoesNotPanic(t *testing.T) {
	hub := NewHub()
	clients := make([]*Client, 8)
	for i := range clients {
		clients[i] = newTestClient(uint(i))
		hub.Register(clients[i])
		hub.Subscribe(clients[i], 10)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				hub.Broadcast(Event{Type: EventBidPlaced, AuctionID: 10, Amount: int64(j)})
			}
		}()
	}
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			c.Close()
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
}

func TestCloseUnregisters(t *testing.T) {
	hub := NewHub()
	c := newTestClient(1)
	hub.Register(c)
	hub.Subscribe(c, 10)
	assert.Equal(t, 1, hub.ClientCount())

	c.Close()
	assert.Equal(t, 0, hub.ClientCount())

	// Closing twice is safe and broadcast no longer targets it.
	c.Close()
	hub.Broadcast(Event{Type: EventBidPlaced, AuctionID: 10})
}
