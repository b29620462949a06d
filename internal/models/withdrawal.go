package models

import (
	"time"

	"gorm.io/gorm"
)

// Withdrawal converts a model's earned coins to a cash payout. Coins are
// debited up-front; a failed payout refunds them.
type Withdrawal struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ActorID     uint           `gorm:"not null;index" json:"actor_id"`
	OrderID     string         `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	Coins       int64          `gorm:"not null" json:"coins"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	PhoneNumber string         `gorm:"size:20" json:"phone_number"`
	Status      string         `gorm:"size:20;not null;index" json:"status"`
	ProviderRef string         `gorm:"size:128" json:"provider_ref"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Actor Actor `gorm:"foreignKey:ActorID" json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
