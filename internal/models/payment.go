package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment tracks a coin-package purchase through the external checkout.
// Coins are credited only by the provider webhook, idempotent on ProviderRef.
type Payment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ActorID        uint           `gorm:"not null;index" json:"actor_id"`
	PackageID      uint           `gorm:"not null;index" json:"package_id"`
	Coins          int64          `gorm:"not null" json:"coins"`
	AmountCents    int64          `gorm:"not null" json:"amount_cents"`
	Currency       string         `gorm:"size:3;default:'USD'" json:"currency"`
	Provider       string         `gorm:"size:50;not null" json:"provider"`
	ProviderRef    string         `gorm:"size:255;uniqueIndex" json:"provider_ref"`
	Status         string         `gorm:"size:20;not null;index" json:"status"`
	IdempotencyKey string         `gorm:"size:255;uniqueIndex" json:"-"`
	ExpiresAt      *time.Time     `json:"expires_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Actor   Actor       `gorm:"foreignKey:ActorID" json:"-"`
	Package CoinPackage `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
