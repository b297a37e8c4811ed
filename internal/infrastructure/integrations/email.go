// Package integrations holds outbound collaborators: SMTP mail and the
// Slack incoming webhook.
package integrations

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/pkg/config"
	"taskdeck/pkg/retry"
)

// SMTPMailer sends task assignment mail over plain SMTP. Transient
// delivery failures are retried with backoff.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	fromName string
	auth     smtp.Auth
	retry    retry.Config

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg *config.Config) ports.Mailer {
	return &SMTPMailer{
		host:     cfg.Email.Host,
		port:     cfg.Email.Port,
		from:     cfg.Email.From,
		fromName: cfg.Email.FromName,
		auth:     smtp.PlainAuth("", cfg.Email.Username, cfg.Email.Password, cfg.Email.Host),
		retry:    retry.DefaultConfig(),
		send:     smtp.SendMail,
	}
}

// IsConfigured returns true if email is configured
func (m *SMTPMailer) IsConfigured() bool {
	return m.host != "" && m.port != "" && m.from != ""
}

func (m *SMTPMailer) SendTaskAssignment(ctx context.Context, toEmail string, task *domain.Task) error {
	if !m.IsConfigured() {
		return fmt.Errorf("email not configured")
	}

	subject := fmt.Sprintf("New Task Assigned: %s", task.Title)
	body := fmt.Sprintf(
		"You have been assigned a new task.\r\n\r\n"+
			"Title: %s\r\n"+
			"Description: %s\r\n"+
			"Priority: %s\r\n",
		task.Title, task.Description, task.Priority,
	)
	if task.DueDate != nil {
		body += fmt.Sprintf("Due: %s\r\n", task.DueDate.Format("2006-01-02"))
	}

	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}

	to := []string{toEmail}
	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		strings.Join(to, ", "),
		from,
		subject,
		body,
	))

	return retry.Retry(ctx, m.retry, func() error {
		return m.send(m.host+":"+m.port, m.auth, m.from, to, msg)
	})
}
