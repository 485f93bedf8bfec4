package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are loaded from the configuration directory in order. Variables
// already present in the environment are never overridden.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		err := godotenv.Load(path)
		switch {
		case err == nil:
			slog.Debug("Loaded environment file", "path", path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("Failed to load environment file", "path", path, "error", err)
		}
	}
}
