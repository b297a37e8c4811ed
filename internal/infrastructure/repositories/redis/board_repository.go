package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisBoardRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisBoardRepository(client *redis.Client) ports.BoardRepository {
	return &RedisBoardRepository{
		client: client,
		prefix: "taskdeck:board:",
	}
}

func (r *RedisBoardRepository) boardKey(id domain.BoardID) string {
	return r.prefix + string(id)
}

func (r *RedisBoardRepository) projectIndexKey(projectID domain.ProjectID) string {
	return r.prefix + "project:" + string(projectID)
}

func (r *RedisBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	if err := r.client.Set(ctx, r.boardKey(board.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set board in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.projectIndexKey(board.ProjectID), string(board.ID)).Err(); err != nil {
		return fmt.Errorf("failed to add board to project index: %w", err)
	}

	return nil
}

func (r *RedisBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	data, err := r.client.Get(ctx, r.boardKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board from Redis: %w", err)
	}

	var board domain.Board
	if err := json.Unmarshal([]byte(data), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	return &board, nil
}

func (r *RedisBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	if _, err := r.GetByID(ctx, board.ID); err != nil {
		return err
	}

	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	if err := r.client.Set(ctx, r.boardKey(board.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update board in Redis: %w", err)
	}

	return nil
}

func (r *RedisBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	board, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.client.SRem(ctx, r.projectIndexKey(board.ProjectID), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to remove board from project index: %w", err)
	}

	if err := r.client.Del(ctx, r.boardKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete board from Redis: %w", err)
	}

	return nil
}

func (r *RedisBoardRepository) FindByProject(ctx context.Context, projectID domain.ProjectID) ([]*domain.Board, error) {
	ids, err := r.client.SMembers(ctx, r.projectIndexKey(projectID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get board index from Redis: %w", err)
	}

	var boards []*domain.Board
	for _, id := range ids {
		board, err := r.GetByID(ctx, domain.BoardID(id))
		if err != nil {
			continue
		}
		boards = append(boards, board)
	}

	return boards, nil
}
