package models

import (
	"time"

	"github.com/digisapp/exa-platform/internal/domain"

	"gorm.io/gorm"
)

// Actor is the unified identity row: one per authenticated user, linked to
// exactly one role-specific profile (model/fan/brand).
type Actor struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username     string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // MODEL | FAN | BRAND | ADMIN
	DateOfBirth  *time.Time     `json:"date_of_birth"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	FCMToken     string         `gorm:"size:512" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	ModelProfile *ModelProfile `gorm:"foreignKey:ActorID" json:"model_profile,omitempty"`
	FanProfile   *FanProfile   `gorm:"foreignKey:ActorID" json:"fan_profile,omitempty"`
	BrandProfile *BrandProfile `gorm:"foreignKey:ActorID" json:"brand_profile,omitempty"`
}

func (Actor) TableName() string {
	return "actors"
}

func (a *Actor) IsModel() bool { return a.Role == domain.RoleModel }
func (a *Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// Age returns age in years at t (caller must ensure DOB is set).
func (a *Actor) Age(t time.Time) int {
	if a.DateOfBirth == nil {
		return 0
	}
	age := t.Year() - a.DateOfBirth.Year()
	if a.DateOfBirth.AddDate(age, 0, 0).After(t) {
		age--
	}
	return age
}
