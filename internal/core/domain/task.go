package domain

import "time"

type TaskID string
type CommentID string
type SubtaskID string

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// NormalizePriority maps unknown or empty labels to the medium default.
func NormalizePriority(p string) Priority {
	switch Priority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(p)
	default:
		return PriorityMedium
	}
}

type Task struct {
	ID          TaskID       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ProjectID   ProjectID    `json:"projectId"`
	BoardID     BoardID      `json:"boardId"`
	AssignedTo  []UserID     `json:"assignedTo"`
	CreatedBy   UserID       `json:"createdBy"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Priority    Priority     `json:"priority"`
	Labels      []string     `json:"labels"`
	Subtasks    []SubtaskID  `json:"subtasks"`
	Comments    []CommentID  `json:"comments"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Attachment is embedded in the task document, not stored standalone.
type Attachment struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	FileType string `json:"fileType"`
}

type Comment struct {
	ID        CommentID `json:"id"`
	Content   string    `json:"content"`
	TaskID    TaskID    `json:"taskId"`
	CreatedBy UserID    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type Subtask struct {
	ID          SubtaskID `json:"id"`
	Title       string    `json:"title"`
	TaskID      TaskID    `json:"taskId"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskFilter describes the search/filter query over a project's tasks.
type TaskFilter struct {
	Query      string     // case-insensitive substring over title and description
	Priority   Priority   // exact match when set
	AssignedTo UserID     // tasks assigned to this user when set
	DueBefore  *time.Time // tasks due on or before this date when set
}

// BoardTaskCount is one row of the per-board task analytics.
type BoardTaskCount struct {
	BoardName string `json:"boardName"`
	TaskCount int    `json:"taskCount"`
}
