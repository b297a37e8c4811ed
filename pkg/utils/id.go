package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID generates a unique entity id
func NewID() string {
	return uuid.New().String()
}

// AttachmentFileName builds a collision-resistant stored name for an upload,
// keeping the original name visible for operators.
func AttachmentFileName(original string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), original)
}
