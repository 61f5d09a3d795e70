package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/events"
	"github.com/illmade-knight/go-grocery/pkg/remote"
)

// NotificationService registers the device push token with the backend. The
// push SDK itself lives outside the core; this is the business-logic side of
// the handshake.
type NotificationService struct {
	api    remote.NotificationAPI
	events events.Logger
	logger zerolog.Logger
}

// NewNotificationService creates the notification service.
func NewNotificationService(api remote.NotificationAPI, eventLogger events.Logger, logger zerolog.Logger) (*NotificationService, error) {
	if api == nil {
		return nil, errors.New("notification API cannot be nil")
	}
	return &NotificationService{
		api:    api,
		events: eventLogger,
		logger: logger.With().Str("component", "NotificationService").Logger(),
	}, nil
}

// RegisterDeviceToken submits the device token and whether the user has
// notifications enabled.
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, deviceToken string, notificationsEnabled bool) error {
	if err := s.api.RegisterDeviceToken(ctx, deviceToken, notificationsEnabled); err != nil {
		return err
	}
	s.events.Log(events.New(events.KindPushTokenUpdated, map[string]any{
		"notifications_enabled": notificationsEnabled,
	}))
	return nil
}
