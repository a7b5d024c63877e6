// Package sqlite implements a persistent translation memory.
//
// The in-memory translation cache only lives as long as one processor
// instance; land-record registers reuse the same boilerplate phrases across
// thousands of documents, so translations are also remembered on disk,
// keyed by the content hash of the exact source text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// Ensure TranslationMemory implements the interface.
var _ driven.TranslationMemory = (*TranslationMemory)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	key        TEXT PRIMARY KEY,
	translated TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

// TranslationMemory is a SQLite-backed driven.TranslationMemory.
type TranslationMemory struct {
	db   *sql.DB
	path string
}

// NewTranslationMemory opens (or creates) the memory at the specified data
// directory. If dataDir is empty, defaults to ~/.khasra/data.
func NewTranslationMemory(dataDir string) (*TranslationMemory, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".khasra", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "translations.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &TranslationMemory{db: db, path: dbPath}, nil
}

// Get returns the stored translation for key.
func (m *TranslationMemory) Get(ctx context.Context, key string) (string, error) {
	var translated string
	err := m.db.QueryRowContext(ctx,
		"SELECT translated FROM translations WHERE key = ?", key,
	).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query translation: %w", err)
	}
	return translated, nil
}

// Put stores a translation, overwriting any existing entry for key.
// Identical source text always carries an equal value, so last-writer-wins
// is harmless.
func (m *TranslationMemory) Put(ctx context.Context, key, translated string) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO translations (key, translated, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET translated = excluded.translated`,
		key, translated, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// Clear empties the memory.
func (m *TranslationMemory) Clear(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM translations"); err != nil {
		return fmt.Errorf("clear translations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (m *TranslationMemory) Close() error {
	return m.db.Close()
}
