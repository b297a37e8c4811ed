package services

import (
	"context"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id domain.NotificationID, caller domain.UserID) error
}

type notificationService struct {
	repo ports.NotificationRepository
}

func NewNotificationService(repo ports.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Notification, error) {
	return s.repo.FindByRecipient(ctx, userID)
}

// MarkRead flips the read flag. Callers can only touch their own
// notifications; anyone else's look like they do not exist.
func (s *notificationService) MarkRead(ctx context.Context, id domain.NotificationID, caller domain.UserID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.Recipient != caller {
		return domain.ErrNotificationNotFound
	}
	return s.repo.MarkRead(ctx, id)
}
