// Package file implements the document cache as one JSON file per content
// hash in a cache directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
	"github.com/khasra-labs/khasra-cli/internal/logger"
)

// Ensure DocumentCache implements the interface.
var _ driven.DocumentCache = (*DocumentCache)(nil)

// DocumentCache stores completed document results under
// <dir>/<content-hash>.json. Entries are whole documents; there are no
// partial entries. Entries never expire - explicit Clear only.
type DocumentCache struct {
	mu  sync.Mutex
	dir string
}

// NewDocumentCache creates a cache rooted at dir.
// If dir is empty, defaults to ~/.khasra/cache/documents.
func NewDocumentCache(dir string) (*DocumentCache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".khasra", "cache", "documents")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &DocumentCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DocumentCache) Dir() string { return c.dir }

func (c *DocumentCache) entryPath(docHash string) string {
	return filepath.Join(c.dir, docHash+".json")
}

// Load returns the cached result for docHash, or domain.ErrNotFound.
// Unreadable or corrupt entries are logged and reported as misses; the
// cache never turns into a correctness dependency.
func (c *DocumentCache) Load(_ context.Context, docHash string) (*domain.DocumentResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.entryPath(docHash))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Document cache read failed for %s: %v", docHash, err)
		}
		return nil, domain.ErrNotFound
	}

	var result domain.DocumentResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warn("Document cache entry %s is corrupt: %v", docHash, err)
		return nil, domain.ErrNotFound
	}
	return &result, nil
}

// Save persists a completed result under docHash. Write failures are logged
// and swallowed: the run already succeeded, the next one is just slower.
func (c *DocumentCache) Save(_ context.Context, docHash string, result *domain.DocumentResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(result)
	if err != nil {
		logger.Warn("Document cache marshal failed for %s: %v", docHash, err)
		return nil
	}
	if err := os.WriteFile(c.entryPath(docHash), data, 0600); err != nil {
		logger.Warn("Document cache write failed for %s: %v", docHash, err)
	}
	return nil
}

// Clear removes the entry for docHash, or every entry when docHash is empty.
func (c *DocumentCache) Clear(_ context.Context, docHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if docHash != "" {
		if err := os.Remove(c.entryPath(docHash)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clear cache entry: %w", err)
		}
		return nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("clear cache entry: %w", err)
		}
	}
	return nil
}
