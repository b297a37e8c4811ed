package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"taskdeck/internal/core/ports"
	"taskdeck/pkg/circuitbreaker"
	"taskdeck/pkg/config"
	"taskdeck/pkg/retry"

	"go.uber.org/zap"
)

// SlackWebhook posts messages to a Slack incoming webhook. Transient
// failures are retried with backoff; a persistently failing webhook trips
// the circuit breaker so request latency stays bounded.
type SlackWebhook struct {
	url     string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	logger  *zap.SugaredLogger
}

func NewSlackWebhook(cfg *config.Config, logger *zap.SugaredLogger) ports.WebhookPoster {
	return &SlackWebhook{
		url:     cfg.Slack.WebhookURL,
		client:  &http.Client{Timeout: cfg.Slack.Timeout},
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
		retry:   retry.DefaultConfig(),
		logger:  logger,
	}
}

// IsConfigured reports whether a webhook URL is set.
func (s *SlackWebhook) IsConfigured() bool {
	return s.url != ""
}

func (s *SlackWebhook) PostMessage(ctx context.Context, text string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("slack webhook not configured")
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	return s.breaker.Execute(ctx, func() error {
		return retry.Retry(ctx, s.retry, func() error {
			return s.post(ctx, body)
		})
	})
}

func (s *SlackWebhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}
