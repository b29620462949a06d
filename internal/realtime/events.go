package realtime

import (
	"time"
)

const (
	EventBidPlaced     = "BID_PLACED"
	EventAuctionClosed = "AUCTION_CLOSED"
)

// Event is the wire payload pushed to websocket subscribers. It is a
// notification only; clients re-fetch the authoritative auction state.
type Event struct {
	Type      string    `msgpack:"type" json:"type"`
	AuctionID uint      `msgpack:"auction_id" json:"auction_id"`
	Amount    int64     `msgpack:"amount" json:"amount,omitempty"`
	Status    string    `msgpack:"status" json:"status,omitempty"`
	EndsAt    time.Time `msgpack:"ends_at" json:"ends_at,omitempty"`
	At        time.Time `msgpack:"at" json:"at"`
}
