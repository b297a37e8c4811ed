package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"taskdeck/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByTask(ctx context.Context, taskID domain.TaskID) ([]*domain.Comment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

type MockSubtaskRepository struct {
	mock.Mock
}

func (m *MockSubtaskRepository) Create(ctx context.Context, subtask *domain.Subtask) error {
	args := m.Called(ctx, subtask)
	return args.Error(0)
}

func (m *MockSubtaskRepository) GetByID(ctx context.Context, id domain.SubtaskID) (*domain.Subtask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subtask), args.Error(1)
}

func (m *MockSubtaskRepository) Update(ctx context.Context, subtask *domain.Subtask) error {
	args := m.Called(ctx, subtask)
	return args.Error(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}

func newTaskDetailsServiceForTest(
	taskRepo *MockTaskRepository,
	commentRepo *MockCommentRepository,
	subtaskRepo *MockSubtaskRepository,
	fileStore *MockFileStore,
	broadcaster *MockBroadcaster,
) TaskDetailsService {
	return NewTaskDetailsService(taskRepo, commentRepo, subtaskRepo, fileStore, broadcaster, zap.NewNop().Sugar())
}

func TestAddComment_AppendsAndBroadcasts(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	commentRepo := new(MockCommentRepository)
	broadcaster := new(MockBroadcaster)
	svc := newTaskDetailsServiceForTest(taskRepo, commentRepo, new(MockSubtaskRepository), new(MockFileStore), broadcaster)

	task := &domain.Task{ID: "task-1", ProjectID: "project-1", Comments: []domain.CommentID{}}
	taskRepo.On("GetByID", mock.Anything, domain.TaskID("task-1")).Return(task, nil)
	commentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)
	taskRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	broadcaster.On("Publish", "project-1", "commentAdded", mock.Anything).Return()

	comment, err := svc.AddComment(context.Background(), "task-1", "user-1", "looks good")

	assert.NoError(t, err)
	assert.Equal(t, "looks good", comment.Content)
	assert.Equal(t, domain.UserID("user-1"), comment.CreatedBy)
	assert.Contains(t, task.Comments, comment.ID)
	broadcaster.AssertExpectations(t)
}

func TestAddComment_TaskNotFound(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	commentRepo := new(MockCommentRepository)
	svc := newTaskDetailsServiceForTest(taskRepo, commentRepo, new(MockSubtaskRepository), new(MockFileStore), new(MockBroadcaster))

	taskRepo.On("GetByID", mock.Anything, domain.TaskID("missing")).Return(nil, domain.ErrTaskNotFound)

	_, err := svc.AddComment(context.Background(), "missing", "user-1", "hello")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddSubtask_StartsIncomplete(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	subtaskRepo := new(MockSubtaskRepository)
	broadcaster := new(MockBroadcaster)
	svc := newTaskDetailsServiceForTest(taskRepo, new(MockCommentRepository), subtaskRepo, new(MockFileStore), broadcaster)

	task := &domain.Task{ID: "task-1", ProjectID: "project-1", Subtasks: []domain.SubtaskID{}}
	taskRepo.On("GetByID", mock.Anything, domain.TaskID("task-1")).Return(task, nil)
	subtaskRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Subtask")).Return(nil)
	taskRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	broadcaster.On("Publish", "project-1", "subtaskAdded", mock.Anything).Return()

	subtask, err := svc.AddSubtask(context.Background(), "task-1", "write tests")

	assert.NoError(t, err)
	assert.False(t, subtask.IsCompleted)
	assert.Contains(t, task.Subtasks, subtask.ID)
	broadcaster.AssertExpectations(t)
}

func TestAddAttachment_StoresFileAndRecordsMetadata(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	fileStore := new(MockFileStore)
	broadcaster := new(MockBroadcaster)
	svc := newTaskDetailsServiceForTest(taskRepo, new(MockCommentRepository), new(MockSubtaskRepository), fileStore, broadcaster)

	task := &domain.Task{ID: "task-1", ProjectID: "project-1", Attachments: []domain.Attachment{}}
	taskRepo.On("GetByID", mock.Anything, domain.TaskID("task-1")).Return(task, nil)
	fileStore.On("Save", mock.Anything, mock.Anything, mock.Anything).Return("uploads/123-spec.pdf", nil)
	taskRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	broadcaster.On("Publish", "project-1", "attachmentAdded", mock.Anything).Return()

	attachment, err := svc.AddAttachment(context.Background(), "task-1", "spec.pdf", "application/pdf", strings.NewReader("%PDF"))

	assert.NoError(t, err)
	assert.Equal(t, "spec.pdf", attachment.FileName)
	assert.Equal(t, "uploads/123-spec.pdf", attachment.FilePath)
	assert.Len(t, task.Attachments, 1)
	broadcaster.AssertExpectations(t)
}

func TestAddAttachment_StoreFailure(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	fileStore := new(MockFileStore)
	svc := newTaskDetailsServiceForTest(taskRepo, new(MockCommentRepository), new(MockSubtaskRepository), fileStore, new(MockBroadcaster))

	task := &domain.Task{ID: "task-1", ProjectID: "project-1"}
	taskRepo.On("GetByID", mock.Anything, domain.TaskID("task-1")).Return(task, nil)
	fileStore.On("Save", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full"))

	_, err := svc.AddAttachment(context.Background(), "task-1", "big.bin", "application/octet-stream", strings.NewReader("data"))

	assert.Error(t, err)
	taskRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
