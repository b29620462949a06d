package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking is a client (fan or brand) request for a model's time. QuotedRate
// and TotalCoins are frozen from the rate card at creation; rate-card edits
// never re-price an open booking.
type Booking struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ModelID       uint       `gorm:"not null;index" json:"model_id"`
	ClientActorID uint       `gorm:"not null;index" json:"client_actor_id"`
	ServiceType   string     `gorm:"size:30;not null" json:"service_type"`
	DurationHours int        `gorm:"not null;default:0" json:"duration_hours"` // 0 for flat services
	QuotedRate    int64      `gorm:"not null" json:"quoted_rate"`
	TotalCoins    int64      `gorm:"not null" json:"total_coins"`
	EventDate     time.Time  `gorm:"not null" json:"event_date"`
	Location      string     `gorm:"size:255" json:"location"`
	Notes         string     `gorm:"type:text" json:"notes"`
	SlotID        *uint      `json:"slot_id"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	CounterNote   string     `gorm:"type:text" json:"counter_note"`
	EscrowedAt    *time.Time `json:"escrowed_at"` // set once when acceptance debits the client
	SettledAt     *time.Time `json:"settled_at"`  // set once when escrow resolves to payout or refund

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Model  ModelProfile `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	Client Actor        `gorm:"foreignKey:ClientActorID" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Open reports whether the booking still reserves client coins without
// having escrowed them.
func (b *Booking) Open() bool {
	return b.Status == "PENDING" || b.Status == "COUNTER"
}
