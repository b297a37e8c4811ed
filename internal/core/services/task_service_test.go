package services

import (
	"context"
	"errors"
	"testing"

	"taskdeck/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id domain.TaskID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByProject(ctx context.Context, projectID domain.ProjectID, filter domain.TaskFilter) ([]*domain.Task, error) {
	args := m.Called(ctx, projectID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Board), args.Error(1)
}

func (m *MockBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBoardRepository) FindByProject(ctx context.Context, projectID domain.ProjectID) ([]*domain.Board, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Board), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipient domain.UserID) ([]*domain.Notification, error) {
	args := m.Called(ctx, recipient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id domain.NotificationID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Publish(room, event string, payload interface{}) {
	m.Called(room, event, payload)
}

func (m *MockBroadcaster) BroadcastAll(event string, payload interface{}) {
	m.Called(event, payload)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendTaskAssignment(ctx context.Context, toEmail string, task *domain.Task) error {
	args := m.Called(ctx, toEmail, task)
	return args.Error(0)
}

type MockWebhookPoster struct {
	mock.Mock
}

func (m *MockWebhookPoster) PostMessage(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func newTaskServiceForTest(
	taskRepo *MockTaskRepository,
	boardRepo *MockBoardRepository,
	userRepo *MockUserRepository,
	notifRepo *MockNotificationRepository,
	broadcaster *MockBroadcaster,
	mailer *MockMailer,
	webhook *MockWebhookPoster,
) TaskService {
	return NewTaskService(taskRepo, boardRepo, userRepo, notifRepo, broadcaster, mailer, webhook, zap.NewNop().Sugar())
}

func TestCreateTask_AttachesToBoardAndBroadcasts(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	broadcaster := new(MockBroadcaster)
	mailer := new(MockMailer)
	webhook := new(MockWebhookPoster)
	svc := newTaskServiceForTest(taskRepo, boardRepo, userRepo, notifRepo, broadcaster, mailer, webhook)

	board := &domain.Board{ID: "board-1", ProjectID: "project-1", Name: "Backlog"}
	boardRepo.On("GetByID", mock.Anything, domain.BoardID("board-1")).Return(board, nil)
	taskRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)
	boardRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Board")).Return(nil)
	broadcaster.On("Publish", "project-1", "taskCreated", mock.Anything).Return()

	task, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:     "Write release notes",
		ProjectID: "project-1",
		BoardID:   "board-1",
		CreatedBy: "user-1",
		Priority:  "high",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Contains(t, board.Tasks, task.ID)
	taskRepo.AssertExpectations(t)
	boardRepo.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}

func TestCreateTask_BoardNotFound(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, new(MockUserRepository), new(MockNotificationRepository), new(MockBroadcaster), new(MockMailer), new(MockWebhookPoster))

	boardRepo.On("GetByID", mock.Anything, domain.BoardID("missing")).Return(nil, domain.ErrBoardNotFound)

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:   "Orphan",
		BoardID: "missing",
	})

	assert.ErrorIs(t, err, domain.ErrBoardNotFound)
	taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTask_NotifiesAssignees(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	broadcaster := new(MockBroadcaster)
	mailer := new(MockMailer)
	svc := newTaskServiceForTest(taskRepo, boardRepo, userRepo, notifRepo, broadcaster, mailer, new(MockWebhookPoster))

	board := &domain.Board{ID: "board-1", ProjectID: "project-1"}
	assignee := &domain.User{ID: "user-2", Username: "bob", Email: "bob@example.com"}

	boardRepo.On("GetByID", mock.Anything, domain.BoardID("board-1")).Return(board, nil)
	taskRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	boardRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetByID", mock.Anything, domain.UserID("user-2")).Return(assignee, nil)
	mailer.On("SendTaskAssignment", mock.Anything, "bob@example.com", mock.Anything).Return(nil)
	notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)
	broadcaster.On("Publish", "user-2", "notify", mock.Anything).Return()
	broadcaster.On("Publish", "project-1", "taskCreated", mock.Anything).Return()

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Review PR",
		ProjectID:  "project-1",
		BoardID:    "board-1",
		AssignedTo: []domain.UserID{"user-2"},
	})

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}

func TestCreateTask_EmailFailureDoesNotFailCreate(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	broadcaster := new(MockBroadcaster)
	mailer := new(MockMailer)
	svc := newTaskServiceForTest(taskRepo, boardRepo, userRepo, notifRepo, broadcaster, mailer, new(MockWebhookPoster))

	board := &domain.Board{ID: "board-1", ProjectID: "project-1"}
	assignee := &domain.User{ID: "user-2", Email: "bob@example.com"}

	boardRepo.On("GetByID", mock.Anything, domain.BoardID("board-1")).Return(board, nil)
	taskRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	boardRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetByID", mock.Anything, domain.UserID("user-2")).Return(assignee, nil)
	mailer.On("SendTaskAssignment", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	broadcaster.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return()

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Flaky mail",
		ProjectID:  "project-1",
		BoardID:    "board-1",
		AssignedTo: []domain.UserID{"user-2"},
	})

	assert.NoError(t, err)
}

func TestUpdateTask_PatchesOnlyProvidedFields(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	broadcaster := new(MockBroadcaster)
	svc := newTaskServiceForTest(taskRepo, new(MockBoardRepository), new(MockUserRepository), new(MockNotificationRepository), broadcaster, new(MockMailer), new(MockWebhookPoster))

	existing := &domain.Task{
		ID:          "task-1",
		Title:       "Old title",
		Description: "keep me",
		ProjectID:   "project-1",
		Priority:    domain.PriorityLow,
	}
	taskRepo.On("GetByID", mock.Anything, domain.TaskID("task-1")).Return(existing, nil)
	taskRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	broadcaster.On("Publish", "project-1", "taskUpdated", mock.Anything).Return()

	title := "New title"
	task, err := svc.UpdateTask(context.Background(), "task-1", TaskUpdate{Title: &title})

	assert.NoError(t, err)
	assert.Equal(t, "New title", task.Title)
	assert.Equal(t, "keep me", task.Description)
	assert.Equal(t, domain.PriorityLow, task.Priority)
	broadcaster.AssertExpectations(t)
}

func TestDeleteTask_DetachesFromBoard(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	broadcaster := new(MockBroadcaster)
	svc := newTaskServiceForTest(taskRepo, boardRepo, new(MockUserRepository), new(MockNotificationRepository), broadcaster, new(MockMailer), new(MockWebhookPoster))

	task := &domain.Task{ID: "task-1", ProjectID: "project-1", BoardID: "board-1"}
	board := &domain.Board{ID: "board-1", Tasks: []domain.TaskID{"task-0", "task-1"}}

	taskRepo.On("GetByID", mock.Anything, domain.TaskID("task-1")).Return(task, nil)
	boardRepo.On("GetByID", mock.Anything, domain.BoardID("board-1")).Return(board, nil)
	boardRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	taskRepo.On("Delete", mock.Anything, domain.TaskID("task-1")).Return(nil)
	broadcaster.On("Publish", "project-1", "taskDeleted", "task-1").Return()

	err := svc.DeleteTask(context.Background(), "task-1")

	assert.NoError(t, err)
	assert.Equal(t, []domain.TaskID{"task-0"}, board.Tasks)
	broadcaster.AssertExpectations(t)
}

func TestSendTaskToSlack_UsesAuthorUsername(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	webhook := new(MockWebhookPoster)
	svc := newTaskServiceForTest(taskRepo, new(MockBoardRepository), userRepo, new(MockNotificationRepository), new(MockBroadcaster), new(MockMailer), webhook)

	task := &domain.Task{ID: "task-1", Title: "Ship it", CreatedBy: "user-1"}
	author := &domain.User{ID: "user-1", Username: "alice"}

	taskRepo.On("GetByID", mock.Anything, domain.TaskID("task-1")).Return(task, nil)
	userRepo.On("GetByID", mock.Anything, domain.UserID("user-1")).Return(author, nil)
	webhook.On("PostMessage", mock.Anything, mock.Anything).Return(nil)

	err := svc.SendTaskToSlack(context.Background(), "task-1")

	assert.NoError(t, err)
	webhook.AssertCalled(t, "PostMessage", mock.Anything, "📌 *Task Update*\n*From:* alice\n*Title:* Ship it")
}

func TestSendTaskToSlack_WebhookError(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	webhook := new(MockWebhookPoster)
	svc := newTaskServiceForTest(taskRepo, new(MockBoardRepository), userRepo, new(MockNotificationRepository), new(MockBroadcaster), new(MockMailer), webhook)

	task := &domain.Task{ID: "task-1", Title: "Ship it", CreatedBy: "user-1"}
	taskRepo.On("GetByID", mock.Anything, domain.TaskID("task-1")).Return(task, nil)
	userRepo.On("GetByID", mock.Anything, domain.UserID("user-1")).Return(nil, domain.ErrUserNotFound)
	webhook.On("PostMessage", mock.Anything, mock.Anything).Return(errors.New("slack unreachable"))

	err := svc.SendTaskToSlack(context.Background(), "task-1")

	assert.Error(t, err)
}
