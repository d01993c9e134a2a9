package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Storage persists the whole catalog at once.
type Storage interface {
	// Load returns every stored record in order. A store that does not exist
	// yet yields no records and no error.
	Load() ([]Record, error)
	// Save replaces the stored contents with records.
	Save(records []Record) error
}

// Storage kinds accepted by OpenStorage.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

var ErrUnknownStorage = errors.New("unknown storage kind")

// OpenStorage returns the backend for kind at path. An empty kind is inferred
// from the file extension: .db, .sqlite and .sqlite3 select SQLite and
// anything else JSON.
func OpenStorage(kind, path string) (Storage, error) {
	if kind == "" {
		kind = inferKind(path)
	}
	switch strings.ToLower(kind) {
	case StorageJSON:
		return NewJSONFile(path), nil
	case StorageSQLite:
		return NewSQLiteFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, kind)
	}
}

func inferKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return StorageSQLite
	default:
		return StorageJSON
	}
}
