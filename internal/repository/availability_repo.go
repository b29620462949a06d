package repository

import (
	"time"

	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Create(s *models.AvailabilitySlot) error {
	return r.db.Create(s).Error
}

func (r *AvailabilityRepository) GetByID(id uint) (*models.AvailabilitySlot, error) {
	var s models.AvailabilitySlot
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AvailabilityRepository) ListOpenByModel(modelID uint, from time.Time) ([]models.AvailabilitySlot, error) {
	var list []models.AvailabilitySlot
	err := r.db.Where("model_id = ? AND status = ? AND starts_at >= ?",
		modelID, domain.SlotStatusOpen, from).
		Order("starts_at ASC").
		Find(&list).Error
	return list, err
}

func (r *AvailabilityRepository) SetStatus(tx *gorm.DB, id uint, status string) error {
	return tx.Model(&models.AvailabilitySlot{}).Where("id = ?", id).Update("status", status).Error
}

func (r *AvailabilityRepository) Delete(modelID, id uint) error {
	return r.db.Where("id = ? AND model_id = ? AND status = ?", id, modelID, domain.SlotStatusOpen).
		Delete(&models.AvailabilitySlot{}).Error
}
