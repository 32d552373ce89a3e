package services

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/models"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

// Repository is the table-level CRUD surface a service needs.
// *storage.Table satisfies it.
type Repository[T any] interface {
	List(ctx context.Context, q storage.Query) ([]T, error)
	Count(ctx context.Context, q storage.Query) (int, error)
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, item *T) (string, error)
	Update(ctx context.Context, id string, item *T) error
	Delete(ctx context.Context, id string) error
}

// MediaRepository is a Repository whose rows reference a stored image
type MediaRepository[T any] interface {
	Repository[T]
	ImageURL(ctx context.Context, id string) (string, error)
}

// FlagRepository is a Repository that can flip a single boolean column
type FlagRepository[T any] interface {
	Repository[T]
	SetFlag(ctx context.Context, id, column string, value bool) error
}

// ImageStore uploads and removes image objects. *storage.MinIOStorage satisfies it.
type ImageStore interface {
	Upload(ctx context.Context, namespace, filename, contentType string, reader io.Reader, size int64) (string, string, error)
	Delete(ctx context.Context, imageURL string) error
}

// Publisher sends change events to the broker
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// ImageFile is an uploaded image on its way to object storage
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func (f *ImageFile) validate() error {
	if f == nil || f.Reader == nil {
		return ErrImageRequired
	}
	if f.ContentType == "" {
		f.ContentType = mime.TypeByExtension(filepath.Ext(f.Name))
	}
	if !strings.HasPrefix(f.ContentType, "image/") {
		return ErrNotAnImage
	}
	return nil
}

var queryAll = storage.Query{}

// DefaultRelated is how many related items a detail page shows
const DefaultRelated = 3

// Option customizes a service
type Option func(*base)

// WithLogger replaces the global zerolog logger
func WithLogger(logger zerolog.Logger) Option {
	return func(b *base) { b.logger = logger }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// WithPublisher enables change events
func WithPublisher(p Publisher) Option {
	return func(b *base) { b.events = p }
}

// base is shared by every service
type base struct {
	kind   string
	logger zerolog.Logger
	now    func() time.Time
	events Publisher
}

func newBase(kind string, opts []Option) *base {
	b := &base{
		kind:   kind,
		logger: log.Logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *base) clock() time.Time {
	return b.now().UTC()
}

// advance returns the current time, but never earlier than prev
func (b *base) advance(prev time.Time) time.Time {
	now := b.clock()
	if now.Before(prev) {
		return prev
	}
	return now
}

func (b *base) publish(ctx context.Context, action, id, title, imageURL string) {
	b.emit(ctx, "content."+b.kind+"."+action, models.ContentChangedEvent{
		Kind:      b.kind,
		Action:    action,
		ID:        id,
		Title:     title,
		ImageURL:  imageURL,
		Timestamp: b.clock(),
	})
}

func (b *base) emit(ctx context.Context, routingKey string, payload interface{}) {
	if b.events == nil {
		return
	}
	if err := b.events.Publish(ctx, routingKey, payload); err != nil {
		// The write already happened; the event is informational
		b.logger.Error().Err(err).Str("routing_key", routingKey).Msg("Failed to publish event")
	}
}

// collapse logs a read failure and degrades to an empty list
func collapse[T any](b *base, op string, items []T, err error) []T {
	if err != nil {
		b.logger.Error().Err(err).Str("kind", b.kind).Str("op", op).Msg("Read failed, returning empty list")
		return []T{}
	}
	return items
}

// collapseOne logs a read failure and degrades to nil. Not found is not logged as an error.
func collapseOne[T any](b *base, op string, item *T, err error) *T {
	if err == nil {
		return item
	}
	if isNotFound(err) {
		b.logger.Debug().Str("kind", b.kind).Str("op", op).Msg("Record not found")
	} else {
		b.logger.Error().Err(err).Str("kind", b.kind).Str("op", op).Msg("Read failed, returning nil")
	}
	return nil
}

// relatedQuery leaves the current item out in the database rather than after the fetch
func relatedQuery(featured bool, exclude string, n int) storage.Query {
	return storage.Query{Featured: featured, ExcludeID: exclude, Limit: limitOr(n, DefaultRelated)}
}

func limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
