package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinIOStorage handles image uploads to MinIO
type MinIOStorage struct {
	client     *minio.Client
	bucketName string
	publicURL  string
	now        func() time.Time
	exists     func(ctx context.Context, key string) (bool, error)

	mu   sync.Mutex
	last time.Time
}

// maxKeyAttempts bounds how far Upload walks forward past taken keys
const maxKeyAttempts = 10

// MinIOOptions configures NewMinIOStorage
type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
	UseSSL    bool
}

// NewMinIOStorage creates a new MinIO storage client. No request is made until
// EnsureBucket or an upload runs.
func NewMinIOStorage(opts MinIOOptions) (*MinIOStorage, error) {
	minioClient, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinIOStorage{
		client:     minioClient,
		bucketName: opts.Bucket,
		publicURL:  publicBase(opts),
		now:        time.Now,
	}
	s.exists = s.objectExists
	return s, nil
}

// publicBase returns the scheme://host prefix used in public URLs
func publicBase(opts MinIOOptions) string {
	// Clean public endpoint: strip trailing slash and whitespace/quotes
	base := strings.TrimSpace(opts.PublicURL)
	base = strings.Trim(base, `"'=`)
	base = strings.TrimSuffix(base, "/")

	if base == "" {
		base = opts.Endpoint
	}
	if !strings.Contains(base, "://") {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + base
	}
	return base
}

// EnsureBucket creates the media bucket with a public-read policy if it is missing
func (s *MinIOStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucketName, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucketName, err)
	}
	log.Info().Str("bucket", s.bucketName).Msg("Bucket created")

	policy := fmt.Sprintf(`{"Version": "2012-10-17","Statement": [{"Action": ["s3:GetObject"],"Effect": "Allow","Principal": {"AWS": ["*"]},"Resource": ["arn:aws:s3:::%s/*"],"Sid": ""}]}`, s.bucketName)
	if err := s.client.SetBucketPolicy(ctx, s.bucketName, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// ObjectKey names an upload as {namespace}/{epoch-millis}.{ext}
func ObjectKey(namespace, filename, contentType string, at time.Time) string {
	return fmt.Sprintf("%s/%d.%s", namespace, at.UnixMilli(), extension(filename, contentType))
}

func extension(filename, contentType string) string {
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "bin"
}

// stamp is the upload time in whole milliseconds, always after the previous stamp
func (s *MinIOStorage) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now().Truncate(time.Millisecond)
	if !at.After(s.last) {
		at = s.last.Add(time.Millisecond)
	}
	s.last = at
	return at
}

// freeKey picks an object key not already in the bucket, bumping the
// timestamp by a millisecond while the key is taken
func (s *MinIOStorage) freeKey(ctx context.Context, namespace, filename, contentType string) (string, error) {
	for i := 0; i < maxKeyAttempts; i++ {
		key := ObjectKey(namespace, filename, contentType, s.stamp())
		taken, err := s.exists(ctx, key)
		if err != nil {
			return "", err
		}
		if !taken {
			return key, nil
		}
		log.Debug().Str("key", key).Msg("Object key taken, retrying")
	}
	return "", fmt.Errorf("no free object key in %s after %d attempts", namespace, maxKeyAttempts)
}

func (s *MinIOStorage) objectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat object %s: %w", key, err)
}

// Upload stores an image under namespace and returns its object key and public URL
func (s *MinIOStorage) Upload(ctx context.Context, namespace, filename, contentType string, reader io.Reader, size int64) (string, string, error) {
	key, err := s.freeKey(ctx, namespace, filename, contentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	publicURL := s.PublicURL(key)

	log.Info().
		Str("filename", filename).
		Str("key", key).
		Str("url", publicURL).
		Msg("Image uploaded successfully")

	return key, publicURL, nil
}

// Delete removes the object behind a public URL
func (s *MinIOStorage) Delete(ctx context.Context, imageURL string) error {
	objectName := s.KeyFromURL(imageURL)
	if objectName == "" {
		return fmt.Errorf("could not extract key from URL %q", imageURL)
	}

	if err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	log.Info().Str("object_name", objectName).Msg("Image deleted successfully")
	return nil
}

// PublicURL returns the public URL for an object key
func (s *MinIOStorage) PublicURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucketName, objectKey)
}

// KeyFromURL extracts the object key from a public URL
func (s *MinIOStorage) KeyFromURL(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}

	// Path should look like /bucketName/path/to/object
	path := strings.TrimPrefix(u.Path, "/")
	prefix := s.bucketName + "/"

	// LastIndex handles URLs where the bucket name was duplicated
	if idx := strings.LastIndex(path, prefix); idx != -1 {
		return path[idx+len(prefix):]
	}

	return path
}

// HealthCheck verifies the MinIO connection
func (s *MinIOStorage) HealthCheck(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("MinIO health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket '%s' does not exist", s.bucketName)
	}
	return nil
}
