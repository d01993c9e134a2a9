package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultDataFile = "library_data.json"
	DefaultLogLevel = "info"
)

// Config holds the settings shared by every command.
type Config struct {
	// DataFile is where the catalog is persisted.
	DataFile string
	// Storage selects the backend ("json" or "sqlite"). Empty means infer
	// from the DataFile extension.
	Storage  string
	LogLevel string
}

// Load reads the given .env files (".env" when none are named) into the
// environment and builds a Config from it. Missing .env files are skipped.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	return Config{
		DataFile: getenv("LIBRARY_DATA_FILE", DefaultDataFile),
		Storage:  os.Getenv("LIBRARY_STORAGE"),
		LogLevel: getenv("LIBRARY_LOG_LEVEL", DefaultLogLevel),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
