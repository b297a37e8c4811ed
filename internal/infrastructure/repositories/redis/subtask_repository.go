package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisSubtaskRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisSubtaskRepository(client *redis.Client) ports.SubtaskRepository {
	return &RedisSubtaskRepository{
		client: client,
		prefix: "taskdeck:subtask:",
	}
}

func (r *RedisSubtaskRepository) subtaskKey(id domain.SubtaskID) string {
	return r.prefix + string(id)
}

func (r *RedisSubtaskRepository) Create(ctx context.Context, subtask *domain.Subtask) error {
	data, err := json.Marshal(subtask)
	if err != nil {
		return fmt.Errorf("failed to marshal subtask: %w", err)
	}

	if err := r.client.Set(ctx, r.subtaskKey(subtask.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set subtask in Redis: %w", err)
	}

	return nil
}

func (r *RedisSubtaskRepository) GetByID(ctx context.Context, id domain.SubtaskID) (*domain.Subtask, error) {
	data, err := r.client.Get(ctx, r.subtaskKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSubtaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subtask from Redis: %w", err)
	}

	var subtask domain.Subtask
	if err := json.Unmarshal([]byte(data), &subtask); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subtask: %w", err)
	}

	return &subtask, nil
}

func (r *RedisSubtaskRepository) Update(ctx context.Context, subtask *domain.Subtask) error {
	if _, err := r.GetByID(ctx, subtask.ID); err != nil {
		return err
	}

	data, err := json.Marshal(subtask)
	if err != nil {
		return fmt.Errorf("failed to marshal subtask: %w", err)
	}

	if err := r.client.Set(ctx, r.subtaskKey(subtask.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update subtask in Redis: %w", err)
	}

	return nil
}
