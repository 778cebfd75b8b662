package filestore

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("file not found")

// Store is durable blob storage keyed by a slash separated path.
type Store interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

type Config struct {
	Backend       string
	LocalDir      string
	PublicBaseURL string
	GCSBucket     string
	GCSCredential string
}

func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredential)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
