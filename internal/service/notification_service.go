package service

import (
	"context"
	"encoding/json"

	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"

	"github.com/rs/zerolog"
)

// NotificationService persists in-app notifications and mirrors them to the
// actor's device over FCM when a token is on file.
type NotificationService struct {
	notifications *repository.NotificationRepository
	actors        *repository.ActorRepository
	fcm           *FCMService
	log           zerolog.Logger
}

func NewNotificationService(
	notifications *repository.NotificationRepository,
	actors *repository.ActorRepository,
	fcm *FCMService,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{notifications: notifications, actors: actors, fcm: fcm, log: log}
}

// Notify stores the notification and fires a best-effort push. Persistence
// errors are logged, not propagated: a failed notification must never roll
// back the business operation that triggered it.
func (s *NotificationService) Notify(ctx context.Context, actorID uint, typ, title, body string, data map[string]string) {
	payload := ""
	if len(data) > 0 {
		if raw, err := json.Marshal(data); err == nil {
			payload = string(raw)
		}
	}
	n := &models.Notification{
		ActorID: actorID,
		Type:    typ,
		Title:   title,
		Body:    body,
		Data:    payload,
	}
	if err := s.notifications.Create(n); err != nil {
		s.log.Error().Err(err).Uint("actor_id", actorID).Str("type", typ).Msg("persist notification")
		return
	}
	actor, err := s.actors.GetByID(actorID)
	if err != nil {
		return
	}
	s.fcm.SendToToken(ctx, actor.FCMToken, title, body, data)
}

func (s *NotificationService) List(actorID uint, limit, offset int) ([]models.Notification, error) {
	return s.notifications.ListByActor(actorID, limit, offset)
}

func (s *NotificationService) MarkRead(actorID, id uint) error {
	return s.notifications.MarkRead(actorID, id)
}
