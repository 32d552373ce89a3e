package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/auth"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/backend"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/config"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/events"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/handlers"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	setLevel(cfg.LogLevel)
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Msg("Starting Visit Tembaro")

	client, err := backend.New(cfg.Backend)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create backend client")
	}
	defer client.Close()

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	tables, media, db, err := connect(startCtx, client)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to backend")
	}

	var (
		opts   []services.Option
		broker handlers.BrokerChecker
	)
	if cfg.RabbitMQURL != "" {
		log.Info().Msg("Initializing RabbitMQ publisher...")
		publisher, err := events.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize RabbitMQ publisher")
		}
		defer publisher.Close()
		opts = append(opts, services.WithPublisher(publisher))
		broker = publisher
		log.Info().Msg("RabbitMQ publisher initialized successfully")
	} else {
		log.Warn().Msg("RABBITMQ_URL not set - change events will not be published")
	}

	provider := auth.NewProvider(storage.NewAdminUsers(db), cfg.SessionSecret, cfg.SessionTTL)

	handler, err := handlers.NewHandler(handlers.Options{
		TemplatesPath: cfg.TemplatesPath,
		Services: handlers.Services{
			Attractions: services.NewAttractionService(tables.Attractions, media, opts...),
			News:        services.NewNewsService(tables.News, media, opts...),
			Gallery:     services.NewGalleryService(tables.Gallery, media, opts...),
			Cultural:    services.NewCulturalService(tables.Cultural, media, opts...),
			Itineraries: services.NewItineraryService(tables.Itineraries, opts...),
			Contact:     services.NewContactService(tables.Contact, opts...),
		},
		Auth:                 provider,
		Backend:              client,
		Broker:               broker,
		ContactRatePerMinute: cfg.ContactRatePerMinute,
		TrustProxy:           cfg.TrustProxy,
		SecureCookies:        cfg.SecureCookies,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize handlers")
	}
	defer handler.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      setupRouter(handler, cfg.StaticPath),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", srv.Addr).Msg("Server starting...")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

// connect opens the backend and returns its handles
func connect(ctx context.Context, client *backend.Client) (*storage.Tables, *storage.MinIOStorage, *sql.DB, error) {
	tables, err := client.Tables(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	media, err := client.Media(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := client.DB(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return tables, media, db, nil
}

func setLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// setupRouter configures all routes and middleware
func setupRouter(h *handlers.Handler, staticPath string) *mux.Router {
	r := mux.NewRouter()

	r.Use(handlers.RecoveryMiddleware)
	r.Use(handlers.LoggingMiddleware)
	r.Use(handlers.MetricsMiddleware)

	if _, err := os.Stat(staticPath); err == nil {
		fs := http.FileServer(http.Dir(staticPath))
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
		log.Info().Str("path", staticPath).Msg("Serving static files")
	}

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	h.Routes(r)

	log.Info().Msg("Routes configured successfully")
	return r
}
