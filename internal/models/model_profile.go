package models

import (
	"time"

	"gorm.io/gorm"
)

type ModelProfile struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ActorID         uint   `gorm:"uniqueIndex;not null" json:"actor_id"`
	DisplayName     string `gorm:"size:100;not null" json:"display_name"`
	Bio             string `gorm:"type:text" json:"bio"`
	InstagramHandle string `gorm:"size:100" json:"instagram_handle"`
	TikTokHandle    string `gorm:"size:100" json:"tiktok_handle"`
	Phone           string `gorm:"size:20" json:"phone"`
	City            string `gorm:"size:100;index" json:"city"`
	HeightCm        int    `json:"height_cm"`

	// Coin balance is mutated only through the ledger (see service/ledger).
	CoinBalance int64 `gorm:"not null;default:0" json:"coin_balance"`

	// Published rate card, in coins. Bookings freeze their total from these
	// at creation time; later edits never touch open bookings.
	PhotoshootHourlyRate int64 `gorm:"not null;default:0" json:"photoshoot_hourly_rate"`
	PromoHourlyRate      int64 `gorm:"not null;default:0" json:"promo_hourly_rate"`
	EventHourlyRate      int64 `gorm:"not null;default:0" json:"event_hourly_rate"`
	MeetGreetFlatRate    int64 `gorm:"not null;default:0" json:"meet_greet_flat_rate"`
	VideoCallFlatRate    int64 `gorm:"not null;default:0" json:"video_call_flat_rate"`

	IsActive          bool           `gorm:"default:true;index" json:"is_active"`
	AppearInSearch    bool           `gorm:"default:true;index" json:"appear_in_search"`
	AcceptNewRequests bool           `gorm:"default:true" json:"accept_new_requests"`
	MainImageURL      string         `gorm:"size:512" json:"main_image_url"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Actor Actor        `gorm:"foreignKey:ActorID" json:"-"`
	Media []ModelMedia `gorm:"foreignKey:ModelID" json:"media,omitempty"`
}

func (ModelProfile) TableName() string {
	return "models"
}

// HourlyRate returns the published rate for an hourly service type, with
// OTHER falling back to the cheapest defined hourly rate (or 0 when none).
func (m *ModelProfile) HourlyRate(serviceType string) int64 {
	switch serviceType {
	case "PHOTOSHOOT":
		return m.PhotoshootHourlyRate
	case "PROMO":
		return m.PromoHourlyRate
	case "EVENT":
		return m.EventHourlyRate
	}
	var min int64
	for _, r := range []int64{m.PhotoshootHourlyRate, m.PromoHourlyRate, m.EventHourlyRate} {
		if r > 0 && (min == 0 || r < min) {
			min = r
		}
	}
	return min
}

type ModelMedia struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ModelID      uint           `gorm:"not null;index" json:"model_id"`
	MediaType    string         `gorm:"size:20;not null" json:"media_type"` // IMAGE | VIDEO
	URL          string         `gorm:"size:512;not null" json:"url"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	SortOrder    int            `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Model ModelProfile `gorm:"foreignKey:ModelID" json:"-"`
}

func (ModelMedia) TableName() string {
	return "model_media"
}
