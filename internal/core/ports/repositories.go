package ports

import (
	"context"

	"taskdeck/internal/core/domain"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id domain.ProjectID) error
	List(ctx context.Context) ([]*domain.Project, error)
}

type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id domain.BoardID) error
	FindByProject(ctx context.Context, projectID domain.ProjectID) ([]*domain.Board, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id domain.TaskID) error
	FindByProject(ctx context.Context, projectID domain.ProjectID, filter domain.TaskFilter) ([]*domain.Task, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error)
	FindByTask(ctx context.Context, taskID domain.TaskID) ([]*domain.Comment, error)
}

type SubtaskRepository interface {
	Create(ctx context.Context, subtask *domain.Subtask) error
	GetByID(ctx context.Context, id domain.SubtaskID) (*domain.Subtask, error)
	Update(ctx context.Context, subtask *domain.Subtask) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error)
	FindByRecipient(ctx context.Context, recipient domain.UserID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id domain.NotificationID) error
}
