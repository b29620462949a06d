package models

import (
	"time"

	"gorm.io/gorm"
)

type BrandProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ActorID     uint           `gorm:"uniqueIndex;not null" json:"actor_id"`
	CompanyName string         `gorm:"size:150" json:"company_name"`
	Website     string         `gorm:"size:255" json:"website"`
	CoinBalance int64          `gorm:"not null;default:0" json:"coin_balance"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Actor Actor `gorm:"foreignKey:ActorID" json:"-"`
}

func (BrandProfile) TableName() string {
	return "brands"
}
