package memory

import (
	"context"
	"testing"
	"time"

	"taskdeck/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_CRUD(t *testing.T) {
	repo := NewMemoryProjectRepository()
	ctx := context.Background()

	project := &domain.Project{ID: "p1", Name: "Roadmap", Owner: "u1"}
	require.NoError(t, repo.Create(ctx, project))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", got.Name)

	got.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestTaskRepository_FindByProject_Filters(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	tasks := []*domain.Task{
		{ID: "t1", ProjectID: "p1", Title: "Fix login bug", Priority: domain.PriorityHigh, AssignedTo: []domain.UserID{"u1"}, DueDate: &due},
		{ID: "t2", ProjectID: "p1", Title: "Write docs", Description: "login flow", Priority: domain.PriorityLow, DueDate: &later},
		{ID: "t3", ProjectID: "p1", Title: "Refactor", Priority: domain.PriorityHigh},
		{ID: "t4", ProjectID: "p2", Title: "Other project login", Priority: domain.PriorityHigh},
	}
	for _, task := range tasks {
		require.NoError(t, repo.Create(ctx, task))
	}

	// No filter: every task in the project.
	all, err := repo.FindByProject(ctx, "p1", domain.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Substring search covers title and description, case-insensitive.
	byQuery, err := repo.FindByProject(ctx, "p1", domain.TaskFilter{Query: "LOGIN"})
	require.NoError(t, err)
	assert.Len(t, byQuery, 2)

	byPriority, err := repo.FindByProject(ctx, "p1", domain.TaskFilter{Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Len(t, byPriority, 2)

	byAssignee, err := repo.FindByProject(ctx, "p1", domain.TaskFilter{AssignedTo: "u1"})
	require.NoError(t, err)
	assert.Len(t, byAssignee, 1)
	assert.Equal(t, domain.TaskID("t1"), byAssignee[0].ID)

	cutoff := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	byDue, err := repo.FindByProject(ctx, "p1", domain.TaskFilter{DueBefore: &cutoff})
	require.NoError(t, err)
	assert.Len(t, byDue, 1)
	assert.Equal(t, domain.TaskID("t1"), byDue[0].ID)

	combined, err := repo.FindByProject(ctx, "p1", domain.TaskFilter{Query: "login", Priority: domain.PriorityLow})
	require.NoError(t, err)
	assert.Len(t, combined, 1)
	assert.Equal(t, domain.TaskID("t2"), combined[0].ID)
}

func TestUserRepository_UniquenessAndLookups(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, &domain.User{ID: "u2", Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	err = repo.Create(ctx, &domain.User{ID: "u3", Username: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), byEmail.ID)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestNotificationRepository_NewestFirstAndMarkRead(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.Create(ctx, &domain.Notification{ID: "n1", Recipient: "u1", Content: "old", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{ID: "n2", Recipient: "u1", Content: "new", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{ID: "n3", Recipient: "u2", Content: "other user", CreatedAt: base}))

	got, err := repo.FindByRecipient(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.NotificationID("n2"), got[0].ID)
	assert.False(t, got[0].Read)

	require.NoError(t, repo.MarkRead(ctx, "n2"))
	got, err = repo.FindByRecipient(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got[0].Read)

	assert.ErrorIs(t, repo.MarkRead(ctx, "missing"), domain.ErrNotificationNotFound)
}

func TestCommentRepository_FindByTaskOrdered(t *testing.T) {
	repo := NewMemoryCommentRepository()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.Create(ctx, &domain.Comment{ID: "c2", TaskID: "t1", Content: "second", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &domain.Comment{ID: "c1", TaskID: "t1", Content: "first", CreatedAt: base.Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &domain.Comment{ID: "c3", TaskID: "t2", Content: "elsewhere", CreatedAt: base}))

	got, err := repo.FindByTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
}
