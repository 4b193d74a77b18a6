package services

import (
	"context"

	"go.uber.org/zap"
)

type NotificationServiceInterface interface {
	Notify(ctx context.Context, recipientID uint64, message string)
}

// NotificationService records outbound notifications in the application log.
// Delivery channels (email, messengers) hang off this interface when wired.
type NotificationService struct {
	logger *zap.Logger
}

func NewNotificationService(logger *zap.Logger) NotificationServiceInterface {
	return &NotificationService{logger: logger}
}

func (s *NotificationService) Notify(ctx context.Context, recipientID uint64, message string) {
	s.logger.Info("notification",
		zap.Uint64("recipientId", recipientID),
		zap.String("message", message),
	)
}
