package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// ErrMalformed marks a message that can never be processed. It is dropped
// instead of being requeued.
var ErrMalformed = errors.New("malformed message")

// Handler processes one delivery. Returning an error requeues the message
// unless the error wraps ErrMalformed.
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Consumer handles RabbitMQ message consumption
type Consumer struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	queueName    string
	exchangeName string
}

// NewConsumer declares a durable queue bound to the given routing keys
func NewConsumer(url, exchangeName, queueName string, routingKeys ...string) (*Consumer, error) {
	conn, channel, err := dial(url, exchangeName)
	if err != nil {
		return nil, err
	}

	// Process one message at a time
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	q, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchangeName, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}

	log.Info().
		Str("exchange", exchangeName).
		Str("queue", q.Name).
		Strs("routing_keys", routingKeys).
		Msg("RabbitMQ consumer initialized")

	return &Consumer{
		conn:         conn,
		channel:      channel,
		queueName:    q.Name,
		exchangeName: exchangeName,
	}, nil
}

// Consume delivers messages to handler until ctx is cancelled
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		"",    // consumer tag
		false, // auto-ack (we'll ack manually)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Info().Str("queue", c.queueName).Msg("Started consuming messages from RabbitMQ")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Consumer context cancelled, stopping...")
			return ctx.Err()

		case msg, ok := <-msgs:
			if !ok {
				log.Warn().Msg("Message channel closed")
				return fmt.Errorf("message channel closed")
			}
			c.process(ctx, msg, handler)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg amqp.Delivery, handler Handler) {
	log.Info().
		Str("routing_key", msg.RoutingKey).
		Str("message_id", msg.MessageId).
		Int("body_size", len(msg.Body)).
		Msg("Received message")

	start := time.Now()
	err := handler(ctx, msg.RoutingKey, msg.Body)

	ack, requeue := disposition(err)
	if ack {
		log.Info().
			Str("message_id", msg.MessageId).
			Dur("duration_ms", time.Since(start)).
			Msg("Message processed")
		if err := msg.Ack(false); err != nil {
			log.Error().Err(err).Msg("Failed to ack message")
		}
		return
	}

	log.Error().
		Err(err).
		Str("message_id", msg.MessageId).
		Bool("requeue", requeue).
		Msg("Failed to process message")
	if err := msg.Nack(false, requeue); err != nil {
		log.Error().Err(err).Msg("Failed to nack message")
	}
}

// disposition decides how a delivery is settled after the handler ran
func disposition(err error) (ack, requeue bool) {
	switch {
	case err == nil:
		return true, false
	case errors.Is(err, ErrMalformed):
		return false, false
	default:
		return false, true
	}
}

// Decode unmarshals a message body, marking failures as malformed
func Decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Close closes the consumer connection
func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close channel")
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close connection")
			return err
		}
	}
	log.Info().Msg("RabbitMQ consumer closed")
	return nil
}
