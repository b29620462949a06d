package models

import (
	"time"

	"gorm.io/gorm"
)

type FanProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ActorID     uint           `gorm:"uniqueIndex;not null" json:"actor_id"`
	DisplayName string         `gorm:"size:100" json:"display_name"`
	CoinBalance int64          `gorm:"not null;default:0" json:"coin_balance"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Actor Actor `gorm:"foreignKey:ActorID" json:"-"`
}

func (FanProfile) TableName() string {
	return "fans"
}
