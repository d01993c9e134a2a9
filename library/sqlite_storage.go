package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteFile stores the catalog in a single-table SQLite database. Save
// rewrites every row inside one transaction; row order is kept in the
// position column.
type SQLiteFile struct {
	db *sql.DB
}

// NewSQLiteFile opens (or creates) the SQLite database at path and makes
// sure the books table exists.
func NewSQLiteFile(path string) (*SQLiteFile, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteFile{db: db}, nil
}

// Close closes the DB.
func (s *SQLiteFile) Close() error { return s.db.Close() }

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS books (
            position INTEGER PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            genre TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT 1,
            borrowed_on TEXT,
            returned_on TEXT,
            book_type TEXT NOT NULL DEFAULT 'General'
        );`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Storage
// ---------------------------------------------------------------------------

func (s *SQLiteFile) Load() ([]Record, error) {
	rows, err := s.db.Query(`SELECT title,author,genre,available,borrowed_on,returned_on,book_type FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                  Record
			available          bool
			borrowed, returned sql.NullString
		)
		if err := rows.Scan(&r.Title, &r.Author, &r.Genre, &available, &borrowed, &returned, &r.BookType); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		r.Available = &available
		r.BorrowedOn = nullableString(borrowed)
		r.ReturnedOn = nullableString(returned)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteFile) Save(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM books`); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO books(position,title,author,genre,available,borrowed_on,returned_on,book_type) VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		available := true
		if r.Available != nil {
			available = *r.Available
		}
		if _, err := stmt.Exec(i, r.Title, r.Author, r.Genre, available, r.BorrowedOn, r.ReturnedOn, r.BookType); err != nil {
			return fmt.Errorf("insert book %q: %w", r.Title, err)
		}
	}
	return tx.Commit()
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
