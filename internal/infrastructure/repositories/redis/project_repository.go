package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisProjectRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisProjectRepository(client *redis.Client) ports.ProjectRepository {
	return &RedisProjectRepository{
		client: client,
		prefix: "taskdeck:project:",
	}
}

func (r *RedisProjectRepository) projectKey(id domain.ProjectID) string {
	return r.prefix + string(id)
}

func (r *RedisProjectRepository) indexKey() string {
	return r.prefix + "all"
}

func (r *RedisProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := r.client.Set(ctx, r.projectKey(project.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set project in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.indexKey(), string(project.ID)).Err(); err != nil {
		return fmt.Errorf("failed to add project to index: %w", err)
	}

	return nil
}

func (r *RedisProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	data, err := r.client.Get(ctx, r.projectKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project from Redis: %w", err)
	}

	var project domain.Project
	if err := json.Unmarshal([]byte(data), &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}

	return &project, nil
}

func (r *RedisProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if _, err := r.GetByID(ctx, project.ID); err != nil {
		return err
	}

	data, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := r.client.Set(ctx, r.projectKey(project.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update project in Redis: %w", err)
	}

	return nil
}

func (r *RedisProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	if err := r.client.SRem(ctx, r.indexKey(), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to remove project from index: %w", err)
	}

	if err := r.client.Del(ctx, r.projectKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete project from Redis: %w", err)
	}

	return nil
}

func (r *RedisProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get project index from Redis: %w", err)
	}

	var projects []*domain.Project
	for _, id := range ids {
		project, err := r.GetByID(ctx, domain.ProjectID(id))
		if err != nil {
			// Skip projects that no longer exist
			continue
		}
		projects = append(projects, project)
	}

	return projects, nil
}
