package repository

import (
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
)

type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) Create(a *models.Actor) error {
	return r.db.Create(a).Error
}

func (r *ActorRepository) GetByID(id uint) (*models.Actor, error) {
	var a models.Actor
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActorRepository) GetByEmail(email string) (*models.Actor, error) {
	var a models.Actor
	if err := r.db.Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActorRepository) GetByUsername(username string) (*models.Actor, error) {
	var a models.Actor
	if err := r.db.Where("username = ?", username).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActorRepository) GetByGoogleID(googleID string) (*models.Actor, error) {
	var a models.Actor
	if err := r.db.Where("google_id = ?", googleID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActorRepository) Update(a *models.Actor) error {
	return r.db.Save(a).Error
}

func (r *ActorRepository) List(role string, limit, offset int) ([]models.Actor, error) {
	var list []models.Actor
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *ActorRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Actor{}).Count(&n).Error
	return n, err
}

// CreateFanProfile attaches the balance-holding fan profile to an actor.
func (r *ActorRepository) CreateFanProfile(p *models.FanProfile) error {
	return r.db.Create(p).Error
}

func (r *ActorRepository) CreateBrandProfile(p *models.BrandProfile) error {
	return r.db.Create(p).Error
}

func (r *ActorRepository) GetFanByActorID(actorID uint) (*models.FanProfile, error) {
	var p models.FanProfile
	if err := r.db.Where("actor_id = ?", actorID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ActorRepository) GetBrandByActorID(actorID uint) (*models.BrandProfile, error) {
	var p models.BrandProfile
	if err := r.db.Where("actor_id = ?", actorID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// IsClientRole reports whether the role can hold bookings against models.
func IsClientRole(role string) bool {
	return role == domain.RoleFan || role == domain.RoleBrand
}
