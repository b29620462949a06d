package repository

import (
	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByProviderRef(ref string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Preload("Package").Where("provider_ref = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetForUpdate(tx *gorm.DB, ref string) (*models.Payment, error) {
	var p models.Payment
	if err := forUpdate(tx).Where("provider_ref = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Save(tx *gorm.DB, p *models.Payment) error {
	return tx.Save(p).Error
}

func (r *PaymentRepository) ListByActor(actorID uint, limit, offset int) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Preload("Package").
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *PaymentRepository) ListPackages() ([]models.CoinPackage, error) {
	var list []models.CoinPackage
	err := r.db.Where("is_active = ?", true).Order("coins ASC").Find(&list).Error
	return list, err
}

func (r *PaymentRepository) GetPackage(id uint) (*models.CoinPackage, error) {
	var p models.CoinPackage
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
