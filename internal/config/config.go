package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// ErrMissingConfig is returned when a required environment value is absent
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds every environment-driven setting of the binaries
type Config struct {
	Host          string
	Port          string
	TemplatesPath string
	StaticPath    string
	LogLevel      string

	Backend Backend

	SessionSecret string
	SessionTTL    time.Duration

	RabbitMQURL      string
	RabbitMQExchange string

	ContactRatePerMinute int
	TrustProxy           bool
	SecureCookies        bool

	WebhookURL   string
	WebhookToken string
}

// Backend is the connection information for the database and object storage
type Backend struct {
	DatabaseURL      string
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StoragePublicURL string
	StorageUseSSL    bool
}

// Load reads .env (if present) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only
func FromEnv() *Config {
	return &Config{
		Host:          getEnv("HTTP_HOST", "0.0.0.0"),
		Port:          getEnv("HTTP_PORT", "8080"),
		TemplatesPath: getEnv("TEMPLATES_PATH", "web/templates"),
		StaticPath:    getEnv("STATIC_PATH", "web/static"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Backend: Backend{
			DatabaseURL:      getEnv("DATABASE_URL", ""),
			StorageEndpoint:  getEnv("STORAGE_ENDPOINT", ""),
			StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			StorageBucket:    getEnv("STORAGE_BUCKET", "tembaro-media"),
			StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
			StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
		},
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionTTL:           getDuration("SESSION_TTL", 12*time.Hour),
		RabbitMQURL:          getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange:     getEnv("RABBITMQ_EXCHANGE", "tembaro.events"),
		ContactRatePerMinute: getInt("CONTACT_RATE_PER_MIN", 5),
		TrustProxy:           getEnv("TRUST_PROXY", "false") == "true",
		SecureCookies:        getEnv("SECURE_COOKIES", "false") == "true",
		WebhookURL:           getEnv("NOTIFY_WEBHOOK_URL", ""),
		WebhookToken:         getEnv("NOTIFY_WEBHOOK_TOKEN", ""),
	}
}

// Validate checks the backend values every binary needs
func (b Backend) Validate() error {
	return requireValues(map[string]string{
		"DATABASE_URL":       b.DatabaseURL,
		"STORAGE_ENDPOINT":   b.StorageEndpoint,
		"STORAGE_ACCESS_KEY": b.StorageAccessKey,
		"STORAGE_SECRET_KEY": b.StorageSecretKey,
	})
}

// ValidateServer checks the values the web server needs on top of the backend
func (c *Config) ValidateServer() error {
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	return requireValues(map[string]string{"SESSION_SECRET": c.SessionSecret})
}

// ValidateNotifier checks the values the notifier needs
func (c *Config) ValidateNotifier() error {
	return requireValues(map[string]string{
		"RABBITMQ_URL":       c.RabbitMQURL,
		"NOTIFY_WEBHOOK_URL": c.WebhookURL,
	})
}

func requireValues(values map[string]string) error {
	var missing []string
	for key, value := range values {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
