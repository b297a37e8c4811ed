package services

import (
	"context"
	"fmt"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/pkg/utils"

	"go.uber.org/zap"
)

type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id domain.TaskID, update TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, id domain.TaskID) error
	GetTask(ctx context.Context, id domain.TaskID) (*domain.Task, error)
	SearchTasks(ctx context.Context, projectID domain.ProjectID, filter domain.TaskFilter) ([]*domain.Task, error)
	SendTaskToSlack(ctx context.Context, id domain.TaskID) error
}

type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   domain.ProjectID
	BoardID     domain.BoardID
	AssignedTo  []domain.UserID
	CreatedBy   domain.UserID
	DueDate     *time.Time
	Priority    string
	Labels      []string
}

// TaskUpdate carries the mutable task fields; nil means "leave unchanged".
type TaskUpdate struct {
	Title       *string
	Description *string
	BoardID     *domain.BoardID
	AssignedTo  *[]domain.UserID
	DueDate     *time.Time
	Priority    *string
	Labels      *[]string
}

type taskService struct {
	taskRepo         ports.TaskRepository
	boardRepo        ports.BoardRepository
	userRepo         ports.UserRepository
	notificationRepo ports.NotificationRepository
	broadcaster      ports.Broadcaster
	mailer           ports.Mailer
	webhook          ports.WebhookPoster
	logger           *zap.SugaredLogger
}

func NewTaskService(
	taskRepo ports.TaskRepository,
	boardRepo ports.BoardRepository,
	userRepo ports.UserRepository,
	notificationRepo ports.NotificationRepository,
	broadcaster ports.Broadcaster,
	mailer ports.Mailer,
	webhook ports.WebhookPoster,
	logger *zap.SugaredLogger,
) TaskService {
	return &taskService{
		taskRepo:         taskRepo,
		boardRepo:        boardRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
		mailer:           mailer,
		webhook:          webhook,
		logger:           logger,
	}
}

// CreateTask stores the task, attaches it to its board, notifies assignees
// and broadcasts to the project room. Email and notification failures are
// logged and never fail the request.
func (s *taskService) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	board, err := s.boardRepo.GetByID(ctx, input.BoardID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &domain.Task{
		ID:          domain.TaskID(utils.NewID()),
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		BoardID:     input.BoardID,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.CreatedBy,
		DueDate:     input.DueDate,
		Priority:    domain.NormalizePriority(input.Priority),
		Labels:      input.Labels,
		Subtasks:    []domain.SubtaskID{},
		Comments:    []domain.CommentID{},
		Attachments: []domain.Attachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.AssignedTo == nil {
		task.AssignedTo = []domain.UserID{}
	}
	if task.Labels == nil {
		task.Labels = []string{}
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	board.Tasks = append(board.Tasks, task.ID)
	board.UpdatedAt = now
	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to attach task to board: %w", err)
	}

	s.notifyAssignees(ctx, task)

	s.broadcaster.Publish(string(task.ProjectID), "taskCreated", task)

	return task, nil
}

// notifyAssignees sends assignment email, writes a notification document and
// pushes a "notify" event into each assignee's private room. Best effort.
func (s *taskService) notifyAssignees(ctx context.Context, task *domain.Task) {
	for _, assignee := range task.AssignedTo {
		user, err := s.userRepo.GetByID(ctx, assignee)
		if err != nil {
			s.logger.Warnw("assignee lookup failed", "user_id", assignee, "error", err)
			continue
		}

		if s.mailer != nil {
			if err := s.mailer.SendTaskAssignment(ctx, user.Email, task); err != nil {
				s.logger.Warnw("failed to send task assignment email",
					"email", user.Email,
					"task_id", task.ID,
					"error", err,
				)
			}
		}

		notification := &domain.Notification{
			ID:        domain.NotificationID(utils.NewID()),
			Recipient: assignee,
			Content:   fmt.Sprintf("You have been assigned a new task: %s", task.Title),
			Link:      fmt.Sprintf("/projects/%s/tasks/%s", task.ProjectID, task.ID),
			CreatedAt: time.Now(),
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.Warnw("failed to store notification", "user_id", assignee, "error", err)
			continue
		}

		s.broadcaster.Publish(string(assignee), "notify", notification)
	}
}

func (s *taskService) UpdateTask(ctx context.Context, id domain.TaskID, update TaskUpdate) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.BoardID != nil {
		task.BoardID = *update.BoardID
	}
	if update.AssignedTo != nil {
		task.AssignedTo = *update.AssignedTo
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.Priority != nil {
		task.Priority = domain.NormalizePriority(*update.Priority)
	}
	if update.Labels != nil {
		task.Labels = *update.Labels
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.broadcaster.Publish(string(task.ProjectID), "taskUpdated", task)

	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id domain.TaskID) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Detach from the board first so the board never lists a missing task.
	board, err := s.boardRepo.GetByID(ctx, task.BoardID)
	if err == nil {
		filtered := board.Tasks[:0]
		for _, tid := range board.Tasks {
			if tid != id {
				filtered = append(filtered, tid)
			}
		}
		board.Tasks = filtered
		board.UpdatedAt = time.Now()
		if err := s.boardRepo.Update(ctx, board); err != nil {
			return fmt.Errorf("failed to detach task from board: %w", err)
		}
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.broadcaster.Publish(string(task.ProjectID), "taskDeleted", string(id))

	return nil
}

func (s *taskService) GetTask(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

func (s *taskService) SearchTasks(ctx context.Context, projectID domain.ProjectID, filter domain.TaskFilter) ([]*domain.Task, error) {
	return s.taskRepo.FindByProject(ctx, projectID, filter)
}

// SendTaskToSlack forwards a short task summary to the configured webhook.
func (s *taskService) SendTaskToSlack(ctx context.Context, id domain.TaskID) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	author := string(task.CreatedBy)
	if user, err := s.userRepo.GetByID(ctx, task.CreatedBy); err == nil {
		author = user.Username
	}

	text := fmt.Sprintf("📌 *Task Update*\n*From:* %s\n*Title:* %s", author, task.Title)
	if err := s.webhook.PostMessage(ctx, text); err != nil {
		return fmt.Errorf("failed to post to slack: %w", err)
	}

	return nil
}
