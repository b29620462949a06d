package repository

import (
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(tx *gorm.DB, b *models.Booking) error {
	return tx.Create(b).Error
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.Preload("Model").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// GetForUpdate loads a booking with its row locked for the duration of tx.
func (r *BookingRepository) GetForUpdate(tx *gorm.DB, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := forUpdate(tx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Save(tx *gorm.DB, b *models.Booking) error {
	return tx.Save(b).Error
}

func (r *BookingRepository) ListByClient(clientActorID uint, limit, offset int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Preload("Model").
		Where("client_actor_id = ?", clientActorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListByModel(modelID uint, limit, offset int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Where("model_id = ?", modelID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// SumOpenByClient totals the client's soft reservation: bookings that hold
// coins against the balance without having escrowed them yet.
func (r *BookingRepository) SumOpenByClient(tx *gorm.DB, clientActorID uint) (int64, error) {
	var total int64
	err := tx.Model(&models.Booking{}).
		Where("client_actor_id = ? AND status IN ?", clientActorID,
			[]string{domain.BookingStatusPending, domain.BookingStatusCounter}).
		Select("COALESCE(SUM(total_coins), 0)").
		Scan(&total).Error
	return total, err
}
