package services

import (
	"context"
	"errors"
	"sync"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
	"github.com/khasra-labs/khasra-cli/internal/logger"
)

// TranslateFunc performs the actual translation of one piece of text.
type TranslateFunc func(ctx context.Context, text string) (string, error)

// TranslationCache memoizes translations by the content hash of the exact
// source text. Hashing is case- and whitespace-sensitive on purpose: two
// texts differing only in trailing whitespace are cached separately, so the
// cache never has to decide what "equivalent" text means.
//
// An optional TranslationMemory extends hits across processor instances.
type TranslationCache struct {
	mu      sync.Mutex
	entries map[string]string
	memory  driven.TranslationMemory
}

// NewTranslationCache creates an empty cache. memory may be nil.
func NewTranslationCache(memory driven.TranslationMemory) *TranslationCache {
	return &TranslationCache{
		entries: make(map[string]string),
		memory:  memory,
	}
}

// GetOrTranslate returns the translation for text, calling translate only
// on a miss. The second return reports whether the result was cached.
//
// The external call happens outside the lock, so two goroutines missing on
// the same text may both translate it; the second write overwrites with an
// equal value. Translation is deterministic for identical input, which
// makes that race harmless.
func (c *TranslationCache) GetOrTranslate(ctx context.Context, text string, translate TranslateFunc) (string, bool, error) {
	key := domain.ContentHash([]byte(text))

	c.mu.Lock()
	if cached, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return cached, true, nil
	}
	c.mu.Unlock()

	if c.memory != nil {
		remembered, err := c.memory.Get(ctx, key)
		if err == nil {
			c.mu.Lock()
			c.entries[key] = remembered
			c.mu.Unlock()
			return remembered, true, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Translation memory read failed: %v", err)
		}
	}

	translated, err := translate(ctx, text)
	if err != nil {
		return "", false, err
	}

	c.mu.Lock()
	c.entries[key] = translated
	c.mu.Unlock()

	if c.memory != nil {
		if err := c.memory.Put(ctx, key, translated); err != nil {
			logger.Warn("Translation memory write failed: %v", err)
		}
	}
	return translated, false, nil
}

// Len reports the number of in-memory entries.
func (c *TranslationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear empties the in-memory cache. The persistent memory, if any, is
// left alone; it has its own Clear.
func (c *TranslationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}
