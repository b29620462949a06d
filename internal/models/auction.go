package models

import (
	"time"

	"gorm.io/gorm"
)

type Auction struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ModelID          uint       `gorm:"not null;index" json:"model_id"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	StartingPrice    int64      `gorm:"not null" json:"starting_price"`
	CurrentBid       int64      `gorm:"not null;default:0" json:"current_bid"` // 0 until the first bid
	BuyNowPrice      int64      `gorm:"not null;default:0" json:"buy_now_price"` // 0 = disabled
	ReservePrice     int64      `gorm:"not null;default:0" json:"reserve_price"` // 0 = none
	EndsAt           time.Time  `gorm:"not null;index" json:"ends_at"`
	AntiSnipeMinutes int        `gorm:"not null;default:0" json:"anti_snipe_minutes"`
	Status           string     `gorm:"size:20;not null;index" json:"status"`
	WinningBidID     *uint      `json:"winning_bid_id"`
	ClosedAt         *time.Time `json:"closed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Model      ModelProfile `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	WinningBid *AuctionBid  `gorm:"foreignKey:WinningBidID" json:"winning_bid,omitempty"`
	Bids       []AuctionBid `gorm:"foreignKey:AuctionID" json:"bids,omitempty"`
}

func (Auction) TableName() string {
	return "auctions"
}

// AuctionBid records one bid. At most one bid per auction holds WINNING;
// its EscrowAmount is the bidder's reserved coins until outbid or settled.
type AuctionBid struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AuctionID     uint           `gorm:"not null;index" json:"auction_id"`
	BidderActorID uint           `gorm:"not null;index" json:"bidder_actor_id"`
	Amount        int64          `gorm:"not null" json:"amount"`
	EscrowAmount  int64          `gorm:"not null" json:"escrow_amount"`
	Status        string         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Auction Auction `gorm:"foreignKey:AuctionID" json:"-"`
	Bidder  Actor   `gorm:"foreignKey:BidderActorID" json:"-"`
}

func (AuctionBid) TableName() string {
	return "auction_bids"
}
