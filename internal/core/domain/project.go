package domain

import "time"

type ProjectID string
type BoardID string

type Project struct {
	ID          ProjectID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Owner       UserID    `json:"owner"`
	Members     []UserID  `json:"members"`
	Boards      []BoardID `json:"boards"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasMember reports whether the user appears in the membership set.
// Ownership is checked separately and is not implied here.
func (p *Project) HasMember(id UserID) bool {
	for _, m := range p.Members {
		if m == id {
			return true
		}
	}
	return false
}

type Board struct {
	ID        BoardID   `json:"id"`
	Name      string    `json:"name"`
	ProjectID ProjectID `json:"projectId"`
	Tasks     []TaskID  `json:"tasks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
