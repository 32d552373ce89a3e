// Package notify forwards site events to an operator webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/metrics"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

// maxBodyLog caps how much of an error response ends up in logs and errors
const maxBodyLog = 512

// WebhookClient posts JSON notifications to an operator endpoint
type WebhookClient struct {
	url        string
	token      string
	httpClient *http.Client
}

// Notification is the webhook payload
type Notification struct {
	Type    string      `json:"type"`
	Text    string      `json:"text"`
	Payload interface{} `json:"payload"`
}

// NewWebhookClient creates a webhook client. token is sent as a bearer token when set.
func NewWebhookClient(url, token string) *WebhookClient {
	return &WebhookClient{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ContactSubmitted tells the operator a visitor sent a message
func (c *WebhookClient) ContactSubmitted(ctx context.Context, event models.ContactSubmittedEvent) error {
	return c.send(ctx, Notification{
		Type:    "contact.submitted",
		Text:    fmt.Sprintf("New message from %s <%s>: %s", event.Name, event.Email, event.Subject),
		Payload: event,
	})
}

// ContentChanged tells the operator an admin changed published content
func (c *WebhookClient) ContentChanged(ctx context.Context, event models.ContentChangedEvent) error {
	text := fmt.Sprintf("%s %s %s", event.Kind, event.ID, event.Action)
	if event.Title != "" {
		text = fmt.Sprintf("%s %q %s", event.Kind, event.Title, event.Action)
	}
	return c.send(ctx, Notification{
		Type:    "content." + event.Action,
		Text:    text,
		Payload: event,
	})
}

func (c *WebhookClient) send(ctx context.Context, n Notification) (err error) {
	defer func() { metrics.RecordNotification(err) }()

	jsonData, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyLog))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("Webhook rejected notification")
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	log.Info().
		Str("type", n.Type).
		Int("status", resp.StatusCode).
		Msg("Notification delivered")

	return nil
}
