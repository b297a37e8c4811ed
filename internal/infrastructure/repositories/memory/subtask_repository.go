package memory

import (
	"context"
	"fmt"
	"sync"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
)

type MemorySubtaskRepository struct {
	subtasks map[domain.SubtaskID]*domain.Subtask
	mu       sync.RWMutex
}

func NewMemorySubtaskRepository() ports.SubtaskRepository {
	return &MemorySubtaskRepository{
		subtasks: make(map[domain.SubtaskID]*domain.Subtask),
	}
}

func (r *MemorySubtaskRepository) Create(ctx context.Context, subtask *domain.Subtask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subtasks[subtask.ID]; exists {
		return fmt.Errorf("subtask already exists: %s", subtask.ID)
	}

	r.subtasks[subtask.ID] = subtask
	return nil
}

func (r *MemorySubtaskRepository) GetByID(ctx context.Context, id domain.SubtaskID) (*domain.Subtask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subtask, exists := r.subtasks[id]
	if !exists {
		return nil, domain.ErrSubtaskNotFound
	}

	return subtask, nil
}

func (r *MemorySubtaskRepository) Update(ctx context.Context, subtask *domain.Subtask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subtasks[subtask.ID]; !exists {
		return domain.ErrSubtaskNotFound
	}

	r.subtasks[subtask.ID] = subtask
	return nil
}
