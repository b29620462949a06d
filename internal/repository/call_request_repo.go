package repository

import (
	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
)

type CallRequestRepository struct {
	db *gorm.DB
}

func NewCallRequestRepository(db *gorm.DB) *CallRequestRepository {
	return &CallRequestRepository{db: db}
}

func (r *CallRequestRepository) Create(cr *models.CallRequest) error {
	return r.db.Create(cr).Error
}

func (r *CallRequestRepository) GetByID(id uint) (*models.CallRequest, error) {
	var cr models.CallRequest
	if err := r.db.Preload("Model").First(&cr, id).Error; err != nil {
		return nil, err
	}
	return &cr, nil
}

func (r *CallRequestRepository) GetForUpdate(tx *gorm.DB, id uint) (*models.CallRequest, error) {
	var cr models.CallRequest
	if err := forUpdate(tx).First(&cr, id).Error; err != nil {
		return nil, err
	}
	return &cr, nil
}

func (r *CallRequestRepository) Save(tx *gorm.DB, cr *models.CallRequest) error {
	return tx.Save(cr).Error
}

func (r *CallRequestRepository) ListByFan(fanActorID uint, limit, offset int) ([]models.CallRequest, error) {
	var list []models.CallRequest
	err := r.db.Preload("Model").
		Where("fan_actor_id = ?", fanActorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *CallRequestRepository) ListByModel(modelID uint, limit, offset int) ([]models.CallRequest, error) {
	var list []models.CallRequest
	err := r.db.Where("model_id = ?", modelID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
