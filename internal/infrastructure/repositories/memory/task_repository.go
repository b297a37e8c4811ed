package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
)

type MemoryTaskRepository struct {
	tasks map[domain.TaskID]*domain.Task
	mu    sync.RWMutex
}

func NewMemoryTaskRepository() ports.TaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[domain.TaskID]*domain.Task),
	}
}

func (r *MemoryTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return fmt.Errorf("task already exists: %s", task.ID)
	}

	r.tasks[task.ID] = task
	return nil
}

func (r *MemoryTaskRepository) GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, exists := r.tasks[id]
	if !exists {
		return nil, domain.ErrTaskNotFound
	}

	return task, nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; !exists {
		return domain.ErrTaskNotFound
	}

	r.tasks[task.ID] = task
	return nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, id domain.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[id]; !exists {
		return domain.ErrTaskNotFound
	}

	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) FindByProject(ctx context.Context, projectID domain.ProjectID, filter domain.TaskFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, task := range r.tasks {
		if task.ProjectID != projectID {
			continue
		}
		if MatchesFilter(task, filter) {
			tasks = append(tasks, task)
		}
	}

	return tasks, nil
}

// MatchesFilter applies a task search filter. Shared with the Redis
// repository, which filters after loading the project's task set.
func MatchesFilter(task *domain.Task, filter domain.TaskFilter) bool {
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(task.Title), q) &&
			!strings.Contains(strings.ToLower(task.Description), q) {
			return false
		}
	}
	if filter.Priority != "" && task.Priority != filter.Priority {
		return false
	}
	if filter.AssignedTo != "" {
		found := false
		for _, assignee := range task.AssignedTo {
			if assignee == filter.AssignedTo {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.DueBefore != nil {
		if task.DueDate == nil || task.DueDate.After(*filter.DueBefore) {
			return false
		}
	}
	return true
}
