package ports

import (
	"context"
	"io"

	"taskdeck/internal/core/domain"
)

// Broadcaster is the room-scoped publish side of the realtime hub.
// Publish is fire-and-forget: delivery is at-most-once to sessions
// subscribed to the room at publish time.
type Broadcaster interface {
	// Publish sends an event to every session subscribed to room.
	Publish(room, event string, payload interface{})
	// BroadcastAll sends an event to every connected session regardless of rooms.
	BroadcastAll(event string, payload interface{})
}

// Mailer sends outbound notification email.
type Mailer interface {
	SendTaskAssignment(ctx context.Context, toEmail string, task *domain.Task) error
}

// WebhookPoster forwards a text payload to a chat webhook.
type WebhookPoster interface {
	PostMessage(ctx context.Context, text string) error
}

// FileStore persists uploaded attachment content.
type FileStore interface {
	Save(ctx context.Context, name string, data io.Reader) (path string, err error)
}
