package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GetVersion returns the service version: APP_VERSION from the environment
// when set by CI/CD, otherwise the VERSION file, otherwise a fallback.
func GetVersion() string {
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	for _, versionPath := range []string{"VERSION", filepath.Join("..", "VERSION")} {
		if content, err := os.ReadFile(versionPath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return "0.1.0"
}
