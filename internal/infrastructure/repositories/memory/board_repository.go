package memory

import (
	"context"
	"fmt"
	"sync"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
)

type MemoryBoardRepository struct {
	boards map[domain.BoardID]*domain.Board
	mu     sync.RWMutex
}

func NewMemoryBoardRepository() ports.BoardRepository {
	return &MemoryBoardRepository{
		boards: make(map[domain.BoardID]*domain.Board),
	}
}

func (r *MemoryBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[board.ID]; exists {
		return fmt.Errorf("board already exists: %s", board.ID)
	}

	r.boards[board.ID] = board
	return nil
}

func (r *MemoryBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	board, exists := r.boards[id]
	if !exists {
		return nil, domain.ErrBoardNotFound
	}

	return board, nil
}

func (r *MemoryBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[board.ID]; !exists {
		return domain.ErrBoardNotFound
	}

	r.boards[board.ID] = board
	return nil
}

func (r *MemoryBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[id]; !exists {
		return domain.ErrBoardNotFound
	}

	delete(r.boards, id)
	return nil
}

func (r *MemoryBoardRepository) FindByProject(ctx context.Context, projectID domain.ProjectID) ([]*domain.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var boards []*domain.Board
	for _, board := range r.boards {
		if board.ProjectID == projectID {
			boards = append(boards, board)
		}
	}

	return boards, nil
}
