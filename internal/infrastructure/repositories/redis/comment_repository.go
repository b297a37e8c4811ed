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

type RedisCommentRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisCommentRepository(client *redis.Client) ports.CommentRepository {
	return &RedisCommentRepository{
		client: client,
		prefix: "taskdeck:comment:",
	}
}

func (r *RedisCommentRepository) commentKey(id domain.CommentID) string {
	return r.prefix + string(id)
}

func (r *RedisCommentRepository) taskIndexKey(taskID domain.TaskID) string {
	return r.prefix + "task:" + string(taskID)
}

func (r *RedisCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	data, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	if err := r.client.Set(ctx, r.commentKey(comment.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set comment in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.taskIndexKey(comment.TaskID), string(comment.ID)).Err(); err != nil {
		return fmt.Errorf("failed to add comment to task index: %w", err)
	}

	return nil
}

func (r *RedisCommentRepository) GetByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	data, err := r.client.Get(ctx, r.commentKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment from Redis: %w", err)
	}

	var comment domain.Comment
	if err := json.Unmarshal([]byte(data), &comment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}

	return &comment, nil
}

func (r *RedisCommentRepository) FindByTask(ctx context.Context, taskID domain.TaskID) ([]*domain.Comment, error) {
	ids, err := r.client.SMembers(ctx, r.taskIndexKey(taskID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment index from Redis: %w", err)
	}

	var comments []*domain.Comment
	for _, id := range ids {
		comment, err := r.GetByID(ctx, domain.CommentID(id))
		if err != nil {
			continue
		}
		comments = append(comments, comment)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return comments, nil
}
