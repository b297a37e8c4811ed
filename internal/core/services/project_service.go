package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/pkg/utils"
)

type ProjectService interface {
	CreateProject(ctx context.Context, owner domain.UserID, name, description string) (*domain.Project, error)
	UpdateProject(ctx context.Context, id domain.ProjectID, update ProjectUpdate) (*domain.Project, error)
	DeleteProject(ctx context.Context, id domain.ProjectID) error
	GetProject(ctx context.Context, id domain.ProjectID) (*domain.Project, error)
	Analytics(ctx context.Context, id domain.ProjectID) ([]domain.BoardTaskCount, error)
	ExportTasksCSV(ctx context.Context, id domain.ProjectID) ([]byte, error)
}

// ProjectUpdate carries the mutable project fields; nil means "leave unchanged".
type ProjectUpdate struct {
	Name        *string
	Description *string
}

type projectService struct {
	projectRepo ports.ProjectRepository
	boardRepo   ports.BoardRepository
	taskRepo    ports.TaskRepository
	broadcaster ports.Broadcaster
}

func NewProjectService(
	projectRepo ports.ProjectRepository,
	boardRepo ports.BoardRepository,
	taskRepo ports.TaskRepository,
	broadcaster ports.Broadcaster,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		boardRepo:   boardRepo,
		taskRepo:    taskRepo,
		broadcaster: broadcaster,
	}
}

func (s *projectService) CreateProject(ctx context.Context, owner domain.UserID, name, description string) (*domain.Project, error) {
	now := time.Now()
	project := &domain.Project{
		ID:          domain.ProjectID(utils.NewID()),
		Name:        name,
		Description: description,
		Owner:       owner,
		Members:     []domain.UserID{owner},
		Boards:      []domain.BoardID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	// Every connected session learns about new projects, not just room members.
	s.broadcaster.BroadcastAll("projectCreated", project)

	return project, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id domain.ProjectID, update ProjectUpdate) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.broadcaster.Publish(string(id), "projectUpdated", project)

	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id domain.ProjectID) error {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.broadcaster.BroadcastAll("projectDeleted", map[string]interface{}{
		"projectId": id,
	})

	return nil
}

func (s *projectService) GetProject(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// Analytics returns the task count per board for a project.
func (s *projectService) Analytics(ctx context.Context, id domain.ProjectID) ([]domain.BoardTaskCount, error) {
	tasks, err := s.taskRepo.FindByProject(ctx, id, domain.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	counts := make(map[domain.BoardID]int)
	for _, task := range tasks {
		counts[task.BoardID]++
	}

	boards, err := s.boardRepo.FindByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load boards: %w", err)
	}

	result := make([]domain.BoardTaskCount, 0, len(counts))
	for _, board := range boards {
		if n, ok := counts[board.ID]; ok {
			result = append(result, domain.BoardTaskCount{
				BoardName: board.Name,
				TaskCount: n,
			})
		}
	}

	return result, nil
}

// ExportTasksCSV renders all of a project's tasks as CSV. Returns
// domain.ErrTaskNotFound when the project has no tasks at all.
func (s *projectService) ExportTasksCSV(ctx context.Context, id domain.ProjectID) ([]byte, error) {
	tasks, err := s.taskRepo.FindByProject(ctx, id, domain.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, domain.ErrTaskNotFound
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"title", "description", "priority", "dueDate", "createdAt"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, task := range tasks {
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.Format(time.RFC3339)
		}
		row := []string{
			task.Title,
			task.Description,
			string(task.Priority),
			dueDate,
			task.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
