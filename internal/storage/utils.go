package storage

import (
	"fmt"
	"strings"
	"time"
)

// dashboardPrefix names the per-run folder inside the date hierarchy.
const dashboardPrefix = "GlobalSolarForecast"

// GenerateDashboardFolderPath generates a consistent folder path for dashboards
// Format: YYYY/MM/DD/GlobalSolarForecast-YYYY-MM-DD-HH-MM-SS
func GenerateDashboardFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/%s-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		dashboardPrefix,
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// ParseDashboardFolderTime extracts the generation time from a path that
// contains a dashboard folder name. Returns an error for paths that do not
// belong to a dashboard folder.
func ParseDashboardFolderTime(path string) (time.Time, error) {
	for _, part := range strings.Split(path, "/") {
		if !strings.HasPrefix(part, dashboardPrefix+"-") {
			continue
		}
		stamp := strings.TrimPrefix(part, dashboardPrefix+"-")
		t, err := time.ParseInLocation("2006-01-02-15-04-05", stamp, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("malformed dashboard folder %q: %w", part, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("no dashboard folder in path %q", path)
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "application/json"
	} else if strings.HasSuffix(filename, ".geojson") {
		return "application/geo+json"
	} else if strings.HasSuffix(filename, ".csv") {
		return "text/csv"
	} else if strings.HasSuffix(filename, ".txt") {
		return "text/plain"
	} else if strings.HasSuffix(filename, ".html") {
		return "text/html"
	} else if strings.HasSuffix(filename, ".css") {
		return "text/css"
	} else if strings.HasSuffix(filename, ".md") {
		return "text/markdown"
	} else if strings.HasSuffix(filename, ".png") {
		return "image/png"
	} else if strings.HasSuffix(filename, ".jpg") || strings.HasSuffix(filename, ".jpeg") {
		return "image/jpeg"
	} else if strings.HasSuffix(filename, ".gif") {
		return "image/gif"
	} else {
		return "application/octet-stream"
	}
}
