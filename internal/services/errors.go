package services

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/minio/minio-go/v7"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/metrics"
	"github.com/AbredagnKebede/Visit-Tembaro/internal/storage"
)

var (
	// ErrImageRequired is returned by Create when no image was supplied
	ErrImageRequired = errors.New("please select an image")
	// ErrNotAnImage is returned when the uploaded file is not an image
	ErrNotAnImage = errors.New("only image files are allowed")
	// ErrNotFound is returned when the target row does not exist
	ErrNotFound = storage.ErrNotFound
)

const fallbackMessage = "An error occurred with the database"

// BackendError is a failed write, carrying a message fit for an admin notification
type BackendError struct {
	Op      string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return e.Message
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Describe extracts the most useful human-readable text from a backend error:
// message, then detail, then hint, then a generic fallback.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return firstNonEmpty(pqErr.Message, pqErr.Detail, pqErr.Hint, fallbackMessage)
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return firstNonEmpty(minioErr.Message, minioErr.Code, fallbackMessage)
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return firstNonEmpty(backendErr.Message, fallbackMessage)
	}

	return firstNonEmpty(err.Error(), fallbackMessage)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// fail logs a write-path error and wraps it for the caller
func (b *base) fail(op string, err error) error {
	be := &BackendError{Op: op, Message: Describe(err), Err: err}
	metrics.RecordBackendError(b.kind, op)
	b.logger.Error().
		Err(err).
		Str("kind", b.kind).
		Str("op", op).
		Str("message", be.Message).
		Msg("Backend write failed")
	return be
}
