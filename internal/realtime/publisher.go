package realtime

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Publisher appends auction events to a redis stream. Publishing is
// best-effort: a failure is logged and never fails the caller's request.
type Publisher struct {
	client *redis.Client
	stream string
	log    zerolog.Logger
}

func NewPublisher(client *redis.Client, stream string, log zerolog.Logger) *Publisher {
	return &Publisher{client: client, stream: stream, log: log}
}

func (p *Publisher) publish(ctx context.Context, ev Event) {
	payload, err := msgpack.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("type", ev.Type).Msg("marshal auction event")
		return
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{"event": payload},
	}).Err()
	if err != nil {
		p.log.Error().Err(err).Str("type", ev.Type).Uint("auction_id", ev.AuctionID).Msg("publish auction event")
	}
}

func (p *Publisher) PublishBidPlaced(ctx context.Context, auctionID uint, amount int64, endsAt time.Time) {
	p.publish(ctx, Event{
		Type:      EventBidPlaced,
		AuctionID: auctionID,
		Amount:    amount,
		EndsAt:    endsAt,
		At:        time.Now(),
	})
}

func (p *Publisher) PublishAuctionClosed(ctx context.Context, auctionID uint, status string, finalBid int64) {
	p.publish(ctx, Event{
		Type:      EventAuctionClosed,
		AuctionID: auctionID,
		Status:    status,
		Amount:    finalBid,
		At:        time.Now(),
	})
}
