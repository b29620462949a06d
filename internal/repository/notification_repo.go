package repository

import (
	"time"

	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByActor(actorID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) MarkRead(actorID, id uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND actor_id = ?", id, actorID).
		Update("read_at", &now).Error
}
