package services

import (
	"context"
	"fmt"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/pkg/utils"
)

type BoardService interface {
	CreateBoard(ctx context.Context, projectID domain.ProjectID, name string) (*domain.Board, error)
	GetBoard(ctx context.Context, id domain.BoardID) (*domain.Board, error)
}

type boardService struct {
	boardRepo   ports.BoardRepository
	projectRepo ports.ProjectRepository
	broadcaster ports.Broadcaster
}

func NewBoardService(
	boardRepo ports.BoardRepository,
	projectRepo ports.ProjectRepository,
	broadcaster ports.Broadcaster,
) BoardService {
	return &boardService{
		boardRepo:   boardRepo,
		projectRepo: projectRepo,
		broadcaster: broadcaster,
	}
}

// CreateBoard stores the board, then appends its id to the project's boards
// array. The two writes are separate single-document updates; a crash in
// between leaves a board the project does not list.
func (s *boardService) CreateBoard(ctx context.Context, projectID domain.ProjectID, name string) (*domain.Board, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	board := &domain.Board{
		ID:        domain.BoardID(utils.NewID()),
		Name:      name,
		ProjectID: projectID,
		Tasks:     []domain.TaskID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	project.Boards = append(project.Boards, board.ID)
	project.UpdatedAt = now
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to attach board to project: %w", err)
	}

	s.broadcaster.Publish(string(projectID), "boardCreated", board)

	return board, nil
}

func (s *boardService) GetBoard(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	return s.boardRepo.GetByID(ctx, id)
}
