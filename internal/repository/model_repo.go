package repository

import (
	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
)

type ModelRepository struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

func (r *ModelRepository) Create(p *models.ModelProfile) error {
	return r.db.Create(p).Error
}

func (r *ModelRepository) GetByID(id uint) (*models.ModelProfile, error) {
	var p models.ModelProfile
	if err := r.db.Preload("Media").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ModelRepository) GetByActorID(actorID uint) (*models.ModelProfile, error) {
	var p models.ModelProfile
	if err := r.db.Where("actor_id = ?", actorID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ModelRepository) Update(p *models.ModelProfile) error {
	return r.db.Save(p).Error
}

// UpdateRates writes only the rate-card columns. Open bookings keep their
// frozen totals regardless.
func (r *ModelRepository) UpdateRates(id uint, rates map[string]interface{}) error {
	return r.db.Model(&models.ModelProfile{}).Where("id = ?", id).Updates(rates).Error
}

func (r *ModelRepository) ListPublic(city string, limit, offset int) ([]models.ModelProfile, error) {
	var list []models.ModelProfile
	q := r.db.Where("is_active = ? AND appear_in_search = ?", true, true).
		Order("created_at DESC").
		Limit(limit).Offset(offset)
	if city != "" {
		q = q.Where("city = ?", city)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *ModelRepository) AddMedia(m *models.ModelMedia) error {
	return r.db.Create(m).Error
}

func (r *ModelRepository) DeleteMedia(modelID, mediaID uint) error {
	return r.db.Where("id = ? AND model_id = ?", mediaID, modelID).Delete(&models.ModelMedia{}).Error
}
