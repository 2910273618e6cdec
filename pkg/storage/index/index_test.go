// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexers returns one of each implementation so the contract tests run
// against both.
func indexers(t *testing.T) map[string]Indexer[string, []byte] {
	t.Helper()

	ldb, err := NewStringKeyLevelDBIndexer[[]byte](t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ldb.Close() })

	return map[string]Indexer[string, []byte]{
		"memory":  NewMemoryIndexer[string, []byte](),
		"leveldb": ldb,
	}
}

func TestIndexer_PutGet(t *testing.T) {
	t.Parallel()

	for name, idx := range indexers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, idx.Put("foo-v0", []byte{1, 2, 3}))

			got, err := idx.Get("foo-v0")
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, got)
		})
	}
}

func TestIndexer_GetNotFound(t *testing.T) {
	t.Parallel()

	for name, idx := range indexers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := idx.Get("missing-v0")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestIndexer_Delete(t *testing.T) {
	t.Parallel()

	for name, idx := range indexers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, idx.Put("a-v0", []byte("a")))
			require.NoError(t, idx.Put("a-v1", []byte("aa")))

			require.NoError(t, idx.Delete("a-v0"))
			_, err := idx.Get("a-v0")
			assert.ErrorIs(t, err, ErrNotFound)

			got, err := idx.Get("a-v1")
			require.NoError(t, err)
			assert.Equal(t, []byte("aa"), got)

			assert.NoError(t, idx.Delete("never-stored"))
		})
	}
}

func TestLevelDBIndexer_Persistence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	idx1, err := NewStringKeyLevelDBIndexer[[]byte](dir)
	require.NoError(t, err)
	require.NoError(t, idx1.Put("game-v0", []byte("object bytes")))
	require.NoError(t, idx1.Sync())
	require.NoError(t, idx1.Close())

	idx2, err := NewStringKeyLevelDBIndexer[[]byte](dir)
	require.NoError(t, err)
	defer idx2.Close()

	got, err := idx2.Get("game-v0")
	require.NoError(t, err)
	assert.Equal(t, []byte("object bytes"), got)
}

func TestLevelDBIndexer_Destroy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir() + "/blobs"
	idx, err := NewStringKeyLevelDBIndexer[[]byte](dir)
	require.NoError(t, err)
	require.NoError(t, idx.Put("k", []byte("v")))
	require.NoError(t, idx.Destroy())
	assert.NoDirExists(t, dir)
}

func TestMemoryIndexer_Destroy(t *testing.T) {
	t.Parallel()

	idx := NewMemoryIndexer[string, int]()
	require.NoError(t, idx.Put("k", 1))
	require.NoError(t, idx.Destroy())

	_, err := idx.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}
