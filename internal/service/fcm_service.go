package service

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// FCMService wraps Firebase Cloud Messaging. A nil client (no credentials
// configured) turns every send into a no-op so local setups work without
// Firebase.
type FCMService struct {
	client *messaging.Client
	log    zerolog.Logger
}

func NewFCMService(ctx context.Context, credentialsFile string, log zerolog.Logger) (*FCMService, error) {
	if credentialsFile == "" {
		log.Info().Msg("fcm disabled: no credentials file configured")
		return &FCMService{log: log}, nil
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMService{client: client, log: log}, nil
}

// SendToToken pushes a notification to a single device. Failures are logged,
// not returned; push delivery is best-effort.
func (s *FCMService) SendToToken(ctx context.Context, token, title, body string, data map[string]string) {
	if s.client == nil || token == "" {
		return
	}
	msg := &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		s.log.Warn().Err(err).Msg("fcm send failed")
	}
}
