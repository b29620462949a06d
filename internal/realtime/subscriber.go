package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// readBackoff paces retries when the stream read keeps failing, so an
// unreachable redis does not spin the loop.
const readBackoff = time.Second

// Subscriber tails the auction event stream and feeds the websocket hub.
// Each server process runs one; the stream decouples the request path from
// connected clients across replicas.
type Subscriber struct {
	client *redis.Client
	stream string
	hub    *Hub
	log    zerolog.Logger
}

func NewSubscriber(client *redis.Client, stream string, hub *Hub, log zerolog.Logger) *Subscriber {
	return &Subscriber{client: client, stream: stream, hub: hub, log: log}
}

// Run blocks until ctx is cancelled, reading new entries as they land.
func (s *Subscriber) Run(ctx context.Context) {
	lastID := "$"
	for {
		streams, err := s.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{s.stream, lastID},
			Count:   64,
			Block:   0,
		}).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			if !errors.Is(err, redis.Nil) {
				s.log.Error().Err(err).Msg("read auction event stream")
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(readBackoff):
			}
			continue
		}
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				s.dispatch(msg)
			}
		}
	}
}

func (s *Subscriber) dispatch(msg redis.XMessage) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		s.log.Warn().Str("id", msg.ID).Msg("auction event entry missing payload")
		return
	}
	var ev Event
	if err := msgpack.Unmarshal([]byte(raw), &ev); err != nil {
		s.log.Error().Err(err).Str("id", msg.ID).Msg("decode auction event")
		return
	}
	s.hub.Broadcast(ev)
}
