// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectRecordUniqueName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rec  ObjectRecord
		want string
	}{
		{ObjectRecord{Name: "effect-control", Version: 0}, "effect-control-v0"},
		{ObjectRecord{Name: "foo", Version: 12}, "foo-v12"},
		{ObjectRecord{Name: "foo-v1", Version: 0}, "foo-v1-v0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rec.UniqueName())
	}
}

func TestStatsAdd(t *testing.T) {
	t.Parallel()

	a := Stats{TotalContainers: 1, TotalContainerBytes: 100, TotalObjFiles: 3, UniqueObjFiles: 2, UniqueObjBytes: 40}
	b := Stats{TotalContainers: 2, TotalContainerBytes: 50, TotalObjFiles: 1, UniqueObjFiles: 1, UniqueObjBytes: 10}

	ab, ba := a, b
	ab.Add(b)
	ba.Add(a)
	assert.Equal(t, ab, ba)
	assert.Equal(t, 4, ab.TotalObjFiles)
	assert.Equal(t, 1, ab.DuplicateObjFiles())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.True(t, cfg.Validate().Valid)
	require.NoError(t, cfg.Validate().Err())

	bad := cfg
	bad.GameVersion = 3
	bad.Workers = 0
	bad.BlobIndex = "rocksdb"
	result := bad.Validate()
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
	assert.ErrorContains(t, result.Err(), "game_version")
	assert.ErrorContains(t, result.Err(), "blob_index")

	scratch := cfg
	scratch.BlobIndex = BlobIndexLevelDB
	assert.NoError(t, scratch.Validate().Err())
}
