package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisNotificationRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisNotificationRepository(client *redis.Client) ports.NotificationRepository {
	return &RedisNotificationRepository{
		client: client,
		prefix: "taskdeck:notification:",
	}
}

func (r *RedisNotificationRepository) notificationKey(id domain.NotificationID) string {
	return r.prefix + string(id)
}

func (r *RedisNotificationRepository) recipientIndexKey(recipient domain.UserID) string {
	return r.prefix + "recipient:" + string(recipient)
}

func (r *RedisNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := r.client.Set(ctx, r.notificationKey(notification.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set notification in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.recipientIndexKey(notification.Recipient), string(notification.ID)).Err(); err != nil {
		return fmt.Errorf("failed to add notification to recipient index: %w", err)
	}

	return nil
}

func (r *RedisNotificationRepository) GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	data, err := r.client.Get(ctx, r.notificationKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification from Redis: %w", err)
	}

	var notification domain.Notification
	if err := json.Unmarshal([]byte(data), &notification); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	return &notification, nil
}

// FindByRecipient returns a user's notifications, newest first.
func (r *RedisNotificationRepository) FindByRecipient(ctx context.Context, recipient domain.UserID) ([]*domain.Notification, error) {
	ids, err := r.client.SMembers(ctx, r.recipientIndexKey(recipient)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification index from Redis: %w", err)
	}

	notifications := make([]*domain.Notification, 0, len(ids))
	for _, id := range ids {
		notification, err := r.GetByID(ctx, domain.NotificationID(id))
		if err != nil {
			continue
		}
		notifications = append(notifications, notification)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

func (r *RedisNotificationRepository) MarkRead(ctx context.Context, id domain.NotificationID) error {
	notification, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	notification.Read = true

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := r.client.Set(ctx, r.notificationKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update notification in Redis: %w", err)
	}

	return nil
}
