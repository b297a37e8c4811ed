package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/pkg/utils"

	"go.uber.org/zap"
)

// TaskDetailsService manages the per-task child collections: comments,
// subtasks and file attachments.
type TaskDetailsService interface {
	AddComment(ctx context.Context, taskID domain.TaskID, author domain.UserID, content string) (*domain.Comment, error)
	AddSubtask(ctx context.Context, taskID domain.TaskID, title string) (*domain.Subtask, error)
	AddAttachment(ctx context.Context, taskID domain.TaskID, fileName, fileType string, content io.Reader) (*domain.Attachment, error)
}

type taskDetailsService struct {
	taskRepo    ports.TaskRepository
	commentRepo ports.CommentRepository
	subtaskRepo ports.SubtaskRepository
	fileStore   ports.FileStore
	broadcaster ports.Broadcaster
	logger      *zap.SugaredLogger
}

func NewTaskDetailsService(
	taskRepo ports.TaskRepository,
	commentRepo ports.CommentRepository,
	subtaskRepo ports.SubtaskRepository,
	fileStore ports.FileStore,
	broadcaster ports.Broadcaster,
	logger *zap.SugaredLogger,
) TaskDetailsService {
	return &taskDetailsService{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		subtaskRepo: subtaskRepo,
		fileStore:   fileStore,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *taskDetailsService) AddComment(ctx context.Context, taskID domain.TaskID, author domain.UserID, content string) (*domain.Comment, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        domain.CommentID(utils.NewID()),
		TaskID:    taskID,
		CreatedBy: author,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	// Two writes; a crash between them leaves an orphaned comment document.
	task.Comments = append(task.Comments, comment.ID)
	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to attach comment to task: %w", err)
	}

	s.broadcaster.Publish(string(task.ProjectID), "commentAdded", map[string]any{
		"taskId":  taskID,
		"comment": comment,
	})

	return comment, nil
}

func (s *taskDetailsService) AddSubtask(ctx context.Context, taskID domain.TaskID, title string) (*domain.Subtask, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	subtask := &domain.Subtask{
		ID:          domain.SubtaskID(utils.NewID()),
		TaskID:      taskID,
		Title:       title,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.subtaskRepo.Create(ctx, subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	task.Subtasks = append(task.Subtasks, subtask.ID)
	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to attach subtask to task: %w", err)
	}

	s.broadcaster.Publish(string(task.ProjectID), "subtaskAdded", map[string]any{
		"taskId":  taskID,
		"subtask": subtask,
	})

	return subtask, nil
}

// AddAttachment writes the file to disk and records its metadata inline on
// the task document.
func (s *taskDetailsService) AddAttachment(ctx context.Context, taskID domain.TaskID, fileName, fileType string, content io.Reader) (*domain.Attachment, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	storedName := utils.AttachmentFileName(fileName)
	path, err := s.fileStore.Save(ctx, storedName, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	attachment := domain.Attachment{
		FileName: fileName,
		FilePath: path,
		FileType: fileType,
	}
	task.Attachments = append(task.Attachments, attachment)
	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to attach file to task: %w", err)
	}

	s.broadcaster.Publish(string(task.ProjectID), "attachmentAdded", map[string]any{
		"taskId":     taskID,
		"attachment": attachment,
	})

	return &attachment, nil
}
