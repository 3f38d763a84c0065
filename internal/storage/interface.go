package storage

import (
	"context"
	"time"
)

// StorageClient defines the interface for dashboard storage operations
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores a file inside the dashboard folder for the given timestamp
	StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) error

	// GetFile retrieves a file by its path relative to the storage root
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDashboards lists index.html paths of stored dashboards, newest first
	ListDashboards(ctx context.Context, limit int) ([]string, error)

	// DeleteOldDashboards removes dashboard folders older than the given age
	// and returns the number of folders removed
	DeleteOldDashboards(ctx context.Context, olderThan time.Duration) (int, error)
}
