package models

import (
	"time"

	"gorm.io/gorm"
)

type AvailabilitySlot struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ModelID   uint           `gorm:"not null;index" json:"model_id"`
	StartsAt  time.Time      `gorm:"not null;index" json:"starts_at"`
	EndsAt    time.Time      `gorm:"not null" json:"ends_at"`
	Status    string         `gorm:"size:20;not null;default:'OPEN'" json:"status"` // OPEN | BOOKED
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Model ModelProfile `gorm:"foreignKey:ModelID" json:"-"`
}

func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}
