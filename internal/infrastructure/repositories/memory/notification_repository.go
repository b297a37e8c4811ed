package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
)

type MemoryNotificationRepository struct {
	notifications map[domain.NotificationID]*domain.Notification
	mu            sync.RWMutex
}

func NewMemoryNotificationRepository() ports.NotificationRepository {
	return &MemoryNotificationRepository{
		notifications: make(map[domain.NotificationID]*domain.Notification),
	}
}

func (r *MemoryNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notifications[notification.ID]; exists {
		return fmt.Errorf("notification already exists: %s", notification.ID)
	}

	r.notifications[notification.ID] = notification
	return nil
}

func (r *MemoryNotificationRepository) GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notification, exists := r.notifications[id]
	if !exists {
		return nil, domain.ErrNotificationNotFound
	}

	return notification, nil
}

// FindByRecipient returns a user's notifications, newest first.
func (r *MemoryNotificationRepository) FindByRecipient(ctx context.Context, recipient domain.UserID) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notifications := make([]*domain.Notification, 0)
	for _, notification := range r.notifications {
		if notification.Recipient == recipient {
			notifications = append(notifications, notification)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

func (r *MemoryNotificationRepository) MarkRead(ctx context.Context, id domain.NotificationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification, exists := r.notifications[id]
	if !exists {
		return domain.ErrNotificationNotFound
	}

	notification.Read = true
	return nil
}
