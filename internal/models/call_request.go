package models

import (
	"time"

	"gorm.io/gorm"
)

// CallRequest is a fan's request for a video call, priced flat from the
// model's rate card. Coins transfer fan -> model when the model accepts.
type CallRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ModelID     uint           `gorm:"not null;index" json:"model_id"`
	FanActorID  uint           `gorm:"not null;index" json:"fan_actor_id"`
	ScheduledAt time.Time      `gorm:"not null" json:"scheduled_at"`
	TotalCoins  int64          `gorm:"not null" json:"total_coins"`
	Message     string         `gorm:"type:text" json:"message"`
	Status      string         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Model ModelProfile `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	Fan   Actor        `gorm:"foreignKey:FanActorID" json:"-"`
}

func (CallRequest) TableName() string {
	return "call_requests"
}
