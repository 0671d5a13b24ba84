// Package storage keeps finished recordings uploaded by broadcasters.
package storage

//go:generate mockgen -destination=mock/storage_mock.go -package=mock github.com/dkeye/Livecast/internal/adapters/storage Storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dkeye/Livecast/internal/config"
)

// Storage is the upload collaborator: it stores an opaque blob and hands back
// a URL clients can fetch it from.
type Storage interface {
	// Write stores r under key. size is -1 when unknown.
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// URL returns a fetchable address for key, valid for at least ttl where that applies.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// New builds the storage selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Local)
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
