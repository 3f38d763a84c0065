package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/logger"
)

// LocalStorageClient handles local file system storage operations
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	// Ensure base directory exists
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
	}, nil
}

// Close is a no-op for local storage (implements same interface as GCSClient)
func (l *LocalStorageClient) Close() error {
	return nil
}

// StoreFile stores any file (HTML, JSON, PNG, CSS) in the dashboard folder
// derived from the timestamp
func (l *LocalStorageClient) StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) error {
	filePath := filepath.Join(l.baseDir, filepath.FromSlash(GenerateDashboardFolderPath(timestamp)), filename)

	// Ensure directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Write the file
	if err := os.WriteFile(filePath, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	return nil
}

// GetFile retrieves a file by its path relative to the base directory
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	fullPath := filepath.Join(l.baseDir, filepath.FromSlash(filePath))

	// Keep reads inside the base directory
	absBase, err := filepath.Abs(l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(os.PathSeparator)) {
		return nil, fmt.Errorf("file path %s escapes storage root", filePath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListDashboards lists stored dashboards, sorted newest first. Paths are
// relative to the base directory and point at each dashboard's index.html.
func (l *LocalStorageClient) ListDashboards(ctx context.Context, limit int) ([]string, error) {
	var dashboardPaths []string

	err := filepath.Walk(l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors and continue
		}

		// Look for index.html files
		if info.Name() == "index.html" {
			relPath, _ := filepath.Rel(l.baseDir, path)
			dashboardPaths = append(dashboardPaths, filepath.ToSlash(relPath))
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk dashboards directory: %w", err)
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
func (l *LocalStorageClient) DeleteOldDashboards(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	var folders []string
	err := filepath.Walk(l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), dashboardPrefix+"-") {
			folders = append(folders, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk dashboards directory: %w", err)
	}

	deleted := 0
	for _, folder := range folders {
		generatedAt, err := ParseDashboardFolderTime(filepath.ToSlash(folder))
		if err != nil {
			logger.Warn("Skipping unrecognized dashboard folder", map[string]interface{}{
				"folder": folder,
				"error":  err.Error(),
			})
			continue
		}
		if !generatedAt.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(folder); err != nil {
			return deleted, fmt.Errorf("failed to remove dashboard folder %s: %w", folder, err)
		}
		deleted++
	}

	return deleted, nil
}
