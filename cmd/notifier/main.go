// Command notifier forwards contact submissions and content changes from the
// broker to a webhook.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/config"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/events"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/notify"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
)

const queueName = "tembaro.notifier"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}
	if err := cfg.ValidateNotifier(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	consumer, err := events.NewConsumer(cfg.RabbitMQURL, cfg.RabbitMQExchange, queueName,
		"content.#", services.ContactSubmittedKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RabbitMQ consumer")
	}
	defer consumer.Close()

	dispatcher := notify.NewDispatcher(notify.NewWebhookClient(cfg.WebhookURL, cfg.WebhookToken))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", queueName).Msg("Notifier running")
	if err := consumer.Consume(ctx, dispatcher.Handle); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Consumer stopped")
		return
	}
	log.Info().Msg("Notifier exited gracefully")
}
