package integrations

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTaskAssignment_BuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	mailer := &SMTPMailer{
		host:     "smtp.example.com",
		port:     "587",
		from:     "noreply@example.com",
		fromName: "Taskdeck",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		},
	}

	task := &domain.Task{Title: "Review PR", Description: "check the diff", Priority: domain.PriorityHigh}
	err := mailer.SendTaskAssignment(context.Background(), "bob@example.com", task)

	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"bob@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: New Task Assigned: Review PR")
	assert.Contains(t, string(gotMsg), "From: Taskdeck <noreply@example.com>")
	assert.Contains(t, string(gotMsg), "Priority: high")
}

func TestSendTaskAssignment_RetriesTransientFailures(t *testing.T) {
	attempts := 0

	mailer := &SMTPMailer{
		host: "smtp.example.com",
		port: "587",
		from: "noreply@example.com",
		retry: retry.Config{
			Enabled:      true,
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
			Multiplier:   1.0,
		},
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			attempts++
			if attempts < 3 {
				return errors.New("451 try again later")
			}
			return nil
		},
	}

	err := mailer.SendTaskAssignment(context.Background(), "bob@example.com", &domain.Task{Title: "x"})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestSendTaskAssignment_NotConfigured(t *testing.T) {
	mailer := &SMTPMailer{}

	err := mailer.SendTaskAssignment(context.Background(), "bob@example.com", &domain.Task{Title: "x"})

	assert.Error(t, err)
}
