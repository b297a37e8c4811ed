package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
)

type MemoryCommentRepository struct {
	comments map[domain.CommentID]*domain.Comment
	mu       sync.RWMutex
}

func NewMemoryCommentRepository() ports.CommentRepository {
	return &MemoryCommentRepository{
		comments: make(map[domain.CommentID]*domain.Comment),
	}
}

func (r *MemoryCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[comment.ID]; exists {
		return fmt.Errorf("comment already exists: %s", comment.ID)
	}

	r.comments[comment.ID] = comment
	return nil
}

func (r *MemoryCommentRepository) GetByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, exists := r.comments[id]
	if !exists {
		return nil, domain.ErrCommentNotFound
	}

	return comment, nil
}

func (r *MemoryCommentRepository) FindByTask(ctx context.Context, taskID domain.TaskID) ([]*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var comments []*domain.Comment
	for _, comment := range r.comments {
		if comment.TaskID == taskID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return comments, nil
}
