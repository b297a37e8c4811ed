package memory

import (
	"context"
	"fmt"
	"sync"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
)

type MemoryProjectRepository struct {
	projects map[domain.ProjectID]*domain.Project
	mu       sync.RWMutex
}

func NewMemoryProjectRepository() ports.ProjectRepository {
	return &MemoryProjectRepository{
		projects: make(map[domain.ProjectID]*domain.Project),
	}
}

func (r *MemoryProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[project.ID]; exists {
		return fmt.Errorf("project already exists: %s", project.ID)
	}

	r.projects[project.ID] = project
	return nil
}

func (r *MemoryProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, exists := r.projects[id]
	if !exists {
		return nil, domain.ErrProjectNotFound
	}

	return project, nil
}

func (r *MemoryProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[project.ID]; !exists {
		return domain.ErrProjectNotFound
	}

	r.projects[project.ID] = project
	return nil
}

func (r *MemoryProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[id]; !exists {
		return domain.ErrProjectNotFound
	}

	delete(r.projects, id)
	return nil
}

func (r *MemoryProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*domain.Project, 0, len(r.projects))
	for _, project := range r.projects {
		projects = append(projects, project)
	}

	return projects, nil
}
