package storage

import (
	"context"
	"io"
)

// Storage is the minimal interface for item image backends.
type Storage interface {
	// Put stores a file under the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored key.
	GetURL(key string) string
}

// Config holds backend settings. When Endpoint/AccessKey are empty the API
// uses local disk storage instead of S3.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	PublicURL string

	// Local fallback
	BaseDir string
	BaseURL string
}

// New picks the backend from config: S3-compatible when credentials are
// present, local disk otherwise.
func New(cfg Config) (Storage, error) {
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		return NewS3Storage(cfg)
	}
	return NewLocalStorage(cfg.BaseDir, cfg.BaseURL)
}
