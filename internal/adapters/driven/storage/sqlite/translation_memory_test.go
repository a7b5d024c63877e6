package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

func newTestMemory(t *testing.T) *TranslationMemory {
	t.Helper()
	m, err := NewTranslationMemory(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestPutGet(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	key := domain.ContentHash([]byte("ضلع جموں"))
	require.NoError(t, m.Put(ctx, key, "District Jammu"))

	got, err := m.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "District Jammu", got)
}

func TestGet_Miss(t *testing.T) {
	m := newTestMemory(t)

	_, err := m.Get(context.Background(), "nosuchkey")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPut_OverwriteIsIdempotent(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "District Jammu"))
	require.NoError(t, m.Put(ctx, "k", "District Jammu"))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "District Jammu", got)
}

func TestClear(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "a", "one"))
	require.NoError(t, m.Put(ctx, "b", "two"))
	require.NoError(t, m.Clear(ctx))

	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m1, err := NewTranslationMemory(dir)
	require.NoError(t, err)
	require.NoError(t, m1.Put(ctx, "k", "tehsil"))
	require.NoError(t, m1.Close())

	m2, err := NewTranslationMemory(dir)
	require.NoError(t, err)
	defer m2.Close()

	got, err := m2.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "tehsil", got)
}
