package domain

import "errors"

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrBoardNotFound        = errors.New("board not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrSubtaskNotFound      = errors.New("subtask not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserExists           = errors.New("user already exists")
	ErrNotMember            = errors.New("not a member of this project")
	ErrInsufficientRole     = errors.New("insufficient permissions")
)
