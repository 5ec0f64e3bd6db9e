// Package notify delivers sync outcome emails through the Resend HTTP
// API. The sender is nil-safe: when no API key is configured every
// method is a no-op, so callers never need to branch on configuration.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	resendEndpoint = "https://api.resend.com/emails"
	sendTimeout    = 15 * time.Second
)

// Sender posts transactional emails. Nil-safe: when not configured, all
// methods are no-ops.
type Sender struct {
	apiKey string
	from   string
	to     []string
	client *http.Client
	logger *slog.Logger
}

// NewSender creates a sender. Returns nil if apiKey is empty
// (notifications disabled) so the nil receiver no-ops apply.
func NewSender(apiKey, from string, to []string, logger *slog.Logger) *Sender {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		apiKey: apiKey,
		from:   from,
		to:     to,
		client: &http.Client{Timeout: sendTimeout},
		logger: logger,
	}
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send posts one email. A delivery failure is returned for logging but
// must never fail the caller's job.
func (s *Sender) Send(ctx context.Context, subject, body string) error {
	if s == nil {
		return nil // no-op when not configured
	}

	payload, err := json.Marshal(emailPayload{
		From:    s.from,
		To:      s.to,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send email: status %d", resp.StatusCode)
	}

	s.logger.Info("Notification email sent", "subject", subject, "recipients", len(s.to))
	return nil
}
