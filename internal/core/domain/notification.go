package domain

import "time"

type NotificationID string

type Notification struct {
	ID        NotificationID `json:"id"`
	Recipient UserID         `json:"recipient"`
	Content   string         `json:"content"`
	Link      string         `json:"link,omitempty"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"createdAt"`
}
