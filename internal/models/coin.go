package models

import (
	"time"
)

// CoinTransaction is the append-only ledger. Every balance mutation writes a
// row here inside the same database transaction as the balance update.
type CoinTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   uint      `gorm:"not null;index" json:"actor_id"`
	Amount    int64     `gorm:"not null" json:"amount"` // positive = credit, negative = debit
	Action    string    `gorm:"size:30;not null;index" json:"action"`
	Reference string    `gorm:"size:128;index" json:"reference"` // e.g. booking:42, auction:7
	Metadata  string    `gorm:"type:text" json:"metadata"`       // JSON
	CreatedAt time.Time `json:"created_at"`

	Actor Actor `gorm:"foreignKey:ActorID" json:"-"`
}

func (CoinTransaction) TableName() string {
	return "coin_transactions"
}

type CoinPackage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Coins      int64     `gorm:"not null" json:"coins"`
	PriceCents int64     `gorm:"not null" json:"price_cents"`
	Currency   string    `gorm:"size:3;default:'USD'" json:"currency"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CoinPackage) TableName() string {
	return "coin_packages"
}
