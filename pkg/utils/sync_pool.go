// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"sync"

	"github.com/minio/sha256-simd"
)

var (
	syncPool = sync.Pool{
		New: func() any {
			return new(bytes.Buffer)
		},
	}
	crc32Pool = sync.Pool{
		New: func() any {
			return crc32.NewIEEE()
		},
	}
	sha256Pool = sync.Pool{
		New: func() any {
			return sha256.New()
		},
	}
)

func SyncPoolGetBuffer() *bytes.Buffer {
	return syncPool.Get().(*bytes.Buffer)
}

func SyncPoolPutBuffer(buffer *bytes.Buffer) {
	buffer.Reset()
	syncPool.Put(buffer)
}

func Crc32PoolGetHasher() hash.Hash32 {
	return crc32Pool.Get().(hash.Hash32)
}

func Crc32PoolPutHasher(h hash.Hash32) {
	h.Reset()
	crc32Pool.Put(h)
}

// Crc32 returns the IEEE CRC-32 of data using a pooled hasher.
func Crc32(data []byte) uint32 {
	h := Crc32PoolGetHasher()
	h.Write(data)
	sum := h.Sum32()
	Crc32PoolPutHasher(h)
	return sum
}

func Sha256PoolGetHasher() hash.Hash {
	return sha256Pool.Get().(hash.Hash)
}

func Sha256PoolPutHasher(h hash.Hash) {
	h.Reset()
	sha256Pool.Put(h)
}

// Sha256Hex returns the hex encoded SHA-256 of data.
func Sha256Hex(data []byte) string {
	h := Sha256PoolGetHasher()
	h.Write(data)
	sum := hex.EncodeToString(h.Sum(nil))
	Sha256PoolPutHasher(h)
	return sum
}
