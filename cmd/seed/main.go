// Command seed creates the admin account and, on an empty database, a set of
// sample content so the site has something to show.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/auth"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/backend"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/config"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := config.Load()
	client, err := backend.New(cfg.Backend)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := client.DB(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to backend")
	}
	tables, err := client.Tables(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load tables")
	}
	media, err := client.Media(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load media storage")
	}

	if email, password := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"); email != "" && password != "" {
		provider := auth.NewProvider(storage.NewAdminUsers(db), "seed", time.Minute)
		if _, err := provider.CreateUser(ctx, email, password); err != nil {
			log.Fatal().Err(err).Msg("Failed to create admin user")
		}
	} else {
		log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set - skipping admin user")
	}

	s := &seeder{
		attractions: services.NewAttractionService(tables.Attractions, media),
		news:        services.NewNewsService(tables.News, media),
		gallery:     services.NewGalleryService(tables.Gallery, media),
		cultural:    services.NewCulturalService(tables.Cultural, media),
		itineraries: services.NewItineraryService(tables.Itineraries),
	}

	n, err := s.attractions.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count attractions")
	}
	if n > 0 && os.Getenv("SEED_FORCE") != "true" {
		log.Info().Int("attractions", n).Msg("Content already present - skipping sample content")
		return
	}

	if err := s.run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Msg("Sample content created")
}
