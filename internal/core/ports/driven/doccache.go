package driven

import (
	"context"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

// DocumentCache stores completed document results keyed by the content hash
// of the input file's bytes. A byte-identical file hits the same entry no
// matter its name or location; any byte change misses.
//
// Caching is a performance optimization, never a correctness dependency:
// implementations log I/O failures and report them as misses (reads) or
// swallow them (writes). Entries are whole-document only - a hit always
// returns every page.
type DocumentCache interface {
	// Load returns the cached result for docHash.
	// Returns domain.ErrNotFound when there is no entry.
	Load(ctx context.Context, docHash string) (*domain.DocumentResult, error)

	// Save persists a completed result under docHash.
	Save(ctx context.Context, docHash string, result *domain.DocumentResult) error

	// Clear removes the entry for docHash, or every entry when docHash
	// is empty.
	Clear(ctx context.Context, docHash string) error
}

// TranslationMemory persists translated text across processor instances,
// keyed by the content hash of the exact source text.
type TranslationMemory interface {
	// Get returns the stored translation for key.
	// Returns domain.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Put stores a translation. Overwriting an existing key is allowed;
	// identical source text always produces an equal value.
	Put(ctx context.Context, key, translated string) error

	// Clear empties the memory.
	Clear(ctx context.Context) error

	// Close releases the underlying store.
	Close() error
}
