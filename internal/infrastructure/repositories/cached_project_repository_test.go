package repositories

import (
	"context"
	"testing"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/internal/infrastructure/repositories/memory"
	"taskdeck/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProjectRepo counts reads that reach the underlying store.
type countingProjectRepo struct {
	ports.ProjectRepository
	gets int
}

func (r *countingProjectRepo) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	r.gets++
	return r.ProjectRepository.GetByID(ctx, id)
}

func TestCachedProjectRepository_ReadsServedFromCache(t *testing.T) {
	inner := &countingProjectRepo{ProjectRepository: newMemoryBacked(t)}
	c := cache.NewCache(time.Minute)
	defer c.Stop()
	repo := NewCachedProjectRepository(inner, c)
	ctx := context.Background()

	project := &domain.Project{ID: "p1", Name: "Roadmap", Owner: "u1"}
	require.NoError(t, repo.Create(ctx, project))

	for i := 0; i < 5; i++ {
		got, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Roadmap", got.Name)
	}

	// Create primed the cache, so the store never saw a read.
	assert.Equal(t, 0, inner.gets)
}

func TestCachedProjectRepository_UpdateRefreshesCache(t *testing.T) {
	inner := &countingProjectRepo{ProjectRepository: newMemoryBacked(t)}
	c := cache.NewCache(time.Minute)
	defer c.Stop()
	repo := NewCachedProjectRepository(inner, c)
	ctx := context.Background()

	project := &domain.Project{ID: "p1", Name: "Roadmap", Owner: "u1"}
	require.NoError(t, repo.Create(ctx, project))

	project.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, project))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestCachedProjectRepository_DeleteEvicts(t *testing.T) {
	inner := &countingProjectRepo{ProjectRepository: newMemoryBacked(t)}
	c := cache.NewCache(time.Minute)
	defer c.Stop()
	repo := NewCachedProjectRepository(inner, c)
	ctx := context.Background()

	project := &domain.Project{ID: "p1", Name: "Roadmap"}
	require.NoError(t, repo.Create(ctx, project))
	require.NoError(t, repo.Delete(ctx, "p1"))

	_, err := repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func newMemoryBacked(t *testing.T) ports.ProjectRepository {
	t.Helper()
	return memory.NewMemoryProjectRepository()
}
