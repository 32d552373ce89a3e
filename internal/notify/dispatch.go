package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/events"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
)

// Notifier is what the dispatcher delivers to
type Notifier interface {
	ContactSubmitted(ctx context.Context, event models.ContactSubmittedEvent) error
	ContentChanged(ctx context.Context, event models.ContentChangedEvent) error
}

// Dispatcher routes broker messages to the notifier by routing key
type Dispatcher struct {
	notifier Notifier
}

func NewDispatcher(n Notifier) *Dispatcher {
	return &Dispatcher{notifier: n}
}

// Handle satisfies events.Handler
func (d *Dispatcher) Handle(ctx context.Context, routingKey string, body []byte) error {
	switch {
	case routingKey == "contact.submitted":
		var event models.ContactSubmittedEvent
		if err := events.Decode(body, &event); err != nil {
			return err
		}
		return d.notifier.ContactSubmitted(ctx, event)

	case strings.HasPrefix(routingKey, "content."):
		var event models.ContentChangedEvent
		if err := events.Decode(body, &event); err != nil {
			return err
		}
		return d.notifier.ContentChanged(ctx, event)

	default:
		log.Warn().Str("routing_key", routingKey).Msg("Ignoring message with unknown routing key")
		return fmt.Errorf("%w: unknown routing key %s", events.ErrMalformed, routingKey)
	}
}
