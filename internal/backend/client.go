// Package backend holds the single handle to the hosted database and object
// storage. It is constructed once in main and passed to the services.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/config"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

// ErrMissingConfig is returned by New when a required value is absent
var ErrMissingConfig = config.ErrMissingConfig

// ErrClosed is returned after Close
var ErrClosed = errors.New("backend client is closed")

// Client is the connection to the database and media bucket. Connect runs at
// most once; its outcome is remembered.
type Client struct {
	cfg config.Backend

	once   sync.Once
	mu     sync.Mutex
	closed bool
	err    error
	db     *sql.DB
	tables *storage.Tables
	media  *storage.MinIOStorage
}

// New validates cfg and returns an unconnected client
func New(cfg config.Backend) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{cfg: cfg}, nil
}

// Connect opens the database, applies the schema and prepares the media bucket
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	c.once.Do(func() {
		c.err = c.connect(ctx)
	})
	return c.err
}

func (c *Client) connect(ctx context.Context) error {
	log.Info().Msg("Initializing Postgres storage...")
	db, err := storage.OpenPostgres(ctx, c.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := storage.InitSchema(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize db schema: %w", err)
	}
	log.Info().Msg("Postgres storage initialized")

	log.Info().Msg("Initializing MinIO storage...")
	media, err := storage.NewMinIOStorage(storage.MinIOOptions{
		Endpoint:  c.cfg.StorageEndpoint,
		AccessKey: c.cfg.StorageAccessKey,
		SecretKey: c.cfg.StorageSecretKey,
		Bucket:    c.cfg.StorageBucket,
		PublicURL: c.cfg.StoragePublicURL,
		UseSSL:    c.cfg.StorageUseSSL,
	})
	if err != nil {
		db.Close()
		return err
	}
	if err := media.EnsureBucket(ctx); err != nil {
		// The bucket may be managed outside this service
		log.Warn().Err(err).Str("bucket", c.cfg.StorageBucket).Msg("Could not verify media bucket (will continue)")
	}
	log.Info().
		Str("endpoint", c.cfg.StorageEndpoint).
		Str("bucket", c.cfg.StorageBucket).
		Msg("MinIO storage initialized")

	c.db = db
	c.tables = storage.NewTables(db)
	c.media = media
	return nil
}

// DB returns the connection pool, connecting on first use
func (c *Client) DB(ctx context.Context) (*sql.DB, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c.db, nil
}

// Tables returns the entity tables, connecting on first use
func (c *Client) Tables(ctx context.Context) (*storage.Tables, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c.tables, nil
}

// Media returns the object storage, connecting on first use
func (c *Client) Media(ctx context.Context) (*storage.MinIOStorage, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c.media, nil
}

// HealthCheck pings the database and the media bucket
func (c *Client) HealthCheck(ctx context.Context) map[string]error {
	checks := map[string]error{"database": nil, "storage": nil}
	if err := c.Connect(ctx); err != nil {
		checks["database"] = err
		checks["storage"] = err
		return checks
	}
	checks["database"] = c.db.PingContext(ctx)
	checks["storage"] = c.media.HealthCheck(ctx)
	return checks
}

// Close releases the database pool
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
