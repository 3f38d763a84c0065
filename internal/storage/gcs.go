package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/openclimatefix/global-solar-forecast/internal/logger"
)

// GCSClient handles Google Cloud Storage operations
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile stores any file (HTML, JSON, PNG, CSS) in the dashboard folder
// derived from the timestamp
func (g *GCSClient) StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) error {
	objectPath := GenerateDashboardFolderPath(timestamp) + "/" + filename

	logger.Debug("Storing file to GCS", map[string]interface{}{
		"bucket": g.bucket,
		"object": objectPath,
		"bytes":  len(fileData),
	})

	obj := g.client.Bucket(g.bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)

	// Set content type based on file extension
	writer.ContentType = GetContentType(filename)

	writer.CacheControl = "public, max-age=3600" // Cache for 1 hour

	// Set metadata
	writer.Metadata = map[string]string{
		"generated-at": timestamp.Format(time.RFC3339),
		"filename":     filename,
	}

	// Write file data
	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}

	// Close writer to finalize upload
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}

	return nil
}

// GetFile retrieves any file from GCS
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	obj := g.client.Bucket(g.bucket).Object(filePath)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", filePath, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return fileData, nil
}

// ListDashboards lists stored dashboards from GCS, sorted newest first
func (g *GCSClient) ListDashboards(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, nil)

	var dashboardPaths []string

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		// Look for index.html files
		if strings.HasSuffix(attrs.Name, "/index.html") {
			dashboardPaths = append(dashboardPaths, attrs.Name)
		}
	}

	// Folder names embed the timestamp, so alphabetic order is
	// chronological; reverse for newest first
	sort.Strings(dashboardPaths)
	for i, j := 0, len(dashboardPaths)-1; i < j; i, j = i+1, j-1 {
		dashboardPaths[i], dashboardPaths[j] = dashboardPaths[j], dashboardPaths[i]
	}

	// Apply limit
	if limit > 0 && limit < len(dashboardPaths) {
		dashboardPaths = dashboardPaths[:limit]
	}

	return dashboardPaths, nil
}

// DeleteOldDashboards removes dashboard folders generated before now-olderThan
func (g *GCSClient) DeleteOldDashboards(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	bucket := g.client.Bucket(g.bucket)

	it := bucket.Objects(ctx, nil)

	deletedFolders := make(map[string]bool)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return len(deletedFolders), fmt.Errorf("failed to list objects: %w", err)
		}

		generatedAt, err := ParseDashboardFolderTime(attrs.Name)
		if err != nil {
			continue // Not a dashboard object
		}
		if !generatedAt.Before(cutoff) {
			continue
		}

		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil {
			return len(deletedFolders), fmt.Errorf("failed to delete object %s: %w", attrs.Name, err)
		}
		deletedFolders[path.Dir(attrs.Name)] = true
	}

	return len(deletedFolders), nil
}
