// Package storage resolves and manages the blob-store objects behind video
// file keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"studio/config"
)

// FileStore resolves opaque file keys to URLs and removes objects.
type FileStore interface {
	URL(key string) string
	Delete(ctx context.Context, keys []string) error
}

// Uploader is implemented by stores that accept server-side uploads.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
}

// ErrNotConfigured is returned when a store lacks the credentials for an operation.
var ErrNotConfigured = errors.New("storage: not configured")

// Files is the store used by request handlers and the cleanup job.
var Files FileStore

// New builds the store selected by STORAGE_DRIVER.
func New(cfg *config.Config) (FileStore, error) {
	switch cfg.StorageDriver {
	case "", "uploadthing":
		return NewUploadThing(cfg.UploadThingApiURL, cfg.UploadThingSecret, cfg.UploadThingFileHost), nil
	case "s3":
		store, err := NewS3(S3Options{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// Load sets Files from config.AppConfig.
func Load() error {
	store, err := New(config.AppConfig)
	if err != nil {
		return err
	}
	Files = store
	return nil
}

// URL resolves key through Files, or returns "" when no store is loaded.
func URL(key string) string {
	if Files == nil || key == "" {
		return ""
	}
	return Files.URL(key)
}
