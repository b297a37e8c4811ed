package repositories

import (
	"context"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/pkg/cache"
)

// CachedProjectRepository wraps a project repository with a short-lived
// read cache. The membership check runs on every project-scoped request,
// so project reads dominate the store traffic; writes invalidate.
type CachedProjectRepository struct {
	inner ports.ProjectRepository
	cache *cache.Cache
}

func NewCachedProjectRepository(inner ports.ProjectRepository, c *cache.Cache) ports.ProjectRepository {
	return &CachedProjectRepository{inner: inner, cache: c}
}

func (r *CachedProjectRepository) cacheKey(id domain.ProjectID) string {
	return "project:" + string(id)
}

func (r *CachedProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if err := r.inner.Create(ctx, project); err != nil {
		return err
	}
	r.cache.Set(r.cacheKey(project.ID), project)
	return nil
}

func (r *CachedProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	if v, ok := r.cache.Get(r.cacheKey(id)); ok {
		if project, ok := v.(*domain.Project); ok {
			return project, nil
		}
	}

	project, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(r.cacheKey(id), project)
	return project, nil
}

func (r *CachedProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if err := r.inner.Update(ctx, project); err != nil {
		return err
	}
	r.cache.Set(r.cacheKey(project.ID), project)
	return nil
}

func (r *CachedProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Delete(r.cacheKey(id))
	return nil
}

func (r *CachedProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	// Listing is rare; always read through.
	return r.inner.List(ctx)
}
