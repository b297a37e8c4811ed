package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/internal/infrastructure/repositories/memory"

	"github.com/redis/go-redis/v9"
)

type RedisTaskRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisTaskRepository(client *redis.Client) ports.TaskRepository {
	return &RedisTaskRepository{
		client: client,
		prefix: "taskdeck:task:",
	}
}

func (r *RedisTaskRepository) taskKey(id domain.TaskID) string {
	return r.prefix + string(id)
}

func (r *RedisTaskRepository) projectIndexKey(projectID domain.ProjectID) string {
	return r.prefix + "project:" + string(projectID)
}

func (r *RedisTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := r.client.Set(ctx, r.taskKey(task.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set task in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.projectIndexKey(task.ProjectID), string(task.ID)).Err(); err != nil {
		return fmt.Errorf("failed to add task to project index: %w", err)
	}

	return nil
}

func (r *RedisTaskRepository) GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	data, err := r.client.Get(ctx, r.taskKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task from Redis: %w", err)
	}

	var task domain.Task
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}

	return &task, nil
}

func (r *RedisTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if _, err := r.GetByID(ctx, task.ID); err != nil {
		return err
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := r.client.Set(ctx, r.taskKey(task.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update task in Redis: %w", err)
	}

	return nil
}

func (r *RedisTaskRepository) Delete(ctx context.Context, id domain.TaskID) error {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.client.SRem(ctx, r.projectIndexKey(task.ProjectID), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to remove task from project index: %w", err)
	}

	if err := r.client.Del(ctx, r.taskKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete task from Redis: %w", err)
	}

	return nil
}

// FindByProject loads the project's task set and filters in process. The
// filter semantics are shared with the memory repository.
func (r *RedisTaskRepository) FindByProject(ctx context.Context, projectID domain.ProjectID, filter domain.TaskFilter) ([]*domain.Task, error) {
	ids, err := r.client.SMembers(ctx, r.projectIndexKey(projectID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get task index from Redis: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		task, err := r.GetByID(ctx, domain.TaskID(id))
		if err != nil {
			continue
		}
		if memory.MatchesFilter(task, filter) {
			tasks = append(tasks, task)
		}
	}

	return tasks, nil
}
