// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrc32MatchesIEEE(t *testing.T) {
	t.Parallel()

	for _, in := range [][]byte{nil, {0}, []byte("effect-control"), make([]byte, 4096)} {
		assert.Equal(t, crc32.ChecksumIEEE(in), Crc32(in))
	}
}

func TestCrc32PoolReusesCleanHasher(t *testing.T) {
	t.Parallel()

	first := Crc32([]byte("abc"))
	Crc32([]byte("something else entirely"))
	assert.Equal(t, first, Crc32([]byte("abc")))
}

func TestSha256Hex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sha256Hex(nil))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Sha256Hex([]byte("abc")))
}
