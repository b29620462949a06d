package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPublishBidPlaced(t *testing.T) {
	client := testRedis(t)
	pub := NewPublisher(client, "auction-events", zerolog.Nop())
	ctx := context.Background()

	endsAt := time.Now().Add(time.Hour).Truncate(time.Second)
	pub.PublishBidPlaced(ctx, 42, 250, endsAt)

	msgs, err := client.XRange(ctx, "auction-events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	raw, ok := msgs[0].Values["event"].(string)
	require.True(t, ok)
	var ev Event
	require.NoError(t, msgpack.Unmarshal([]byte(raw), &ev))
	assert.Equal(t, EventBidPlaced, ev.Type)
	assert.Equal(t, uint(42), ev.AuctionID)
	assert.Equal(t, int64(250), ev.Amount)
	assert.Equal(t, endsAt.Unix(), ev.EndsAt.Unix())
}

func TestPublishAuctionClosed(t *testing.T) {
	client := testRedis(t)
	pub := NewPublisher(client, "auction-events", zerolog.Nop())
	ctx := context.Background()

	pub.PublishAuctionClosed(ctx, 7, "SOLD", 900)

	msgs, err := client.XRange(ctx, "auction-events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var ev Event
	require.NoError(t, msgpack.Unmarshal([]byte(msgs[0].Values["event"].(string)), &ev))
	assert.Equal(t, EventAuctionClosed, ev.Type)
	assert.Equal(t, uint(7), ev.AuctionID)
	assert.Equal(t, "SOLD", ev.Status)
	assert.Equal(t, int64(900), ev.Amount)
}

func TestPublishSurvivesDeadRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	pub := NewPublisher(client, "auction-events", zerolog.Nop())
	// Best-effort: no panic, no error surfaced to the caller.
	pub.PublishBidPlaced(context.Background(), 1, 100, time.Now())
}

func TestSubscriberBacksOffWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	sub := NewSubscriber(client, "auction-events", NewHub(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sub.Run(ctx)
	}()

	// Let the loop hit the read error and park in the backoff, then make
	// sure cancellation still stops it promptly.
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop while backing off")
	}
}

func TestSubscriberFeedsHub(t *testing.T) {
	client := testRedis(t)
	hub := NewHub()
	c := &Client{ActorID: 1, Send: make(chan []byte, 8)}
	hub.Register(c)
	hub.Subscribe(c, 42)

	sub := NewSubscriber(client, "auction-events", hub, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		sub.Run(ctx)
	}()

	// Give the subscriber a moment to park on XRead before publishing.
	time.Sleep(50 * time.Millisecond)
	pub := NewPublisher(client, "auction-events", zerolog.Nop())
	pub.PublishBidPlaced(ctx, 42, 300, time.Now().Add(time.Hour))

	select {
	case data := <-c.Send:
		assert.Contains(t, string(data), `"auction_id":42`)
		assert.Contains(t, string(data), EventBidPlaced)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never delivered the event")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop on cancel")
	}
}
