// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package dgo

const (
	// Magic prefixes a compressed container.
	Magic = "oZlB"
	// MaxChunkSize is the plaintext size of a full chunk and the threshold
	// above which a chunk is stored raw.
	MaxChunkSize = 0x8000
	// NameFieldSize is the width of the fixed name field in every header.
	NameFieldSize = 60
	// HeaderSize is the size of a container or entry header.
	HeaderSize = 4 + NameFieldSize

	compressedPrologueSize = 8
	chunkAlign             = 4
)

// Entry is one object file found in a container. Data aliases the decoded
// container body.
type Entry struct {
	Name string
	// Offset of the entry's header within the decoded body.
	Offset int
	Data   []byte
}

// Container is a decoded container.
type Container struct {
	Name       string
	Compressed bool
	// RawSize is the size of the container as read, before decompression.
	RawSize int
	// BodySize is the size of the plain body the entries were parsed from.
	BodySize int
	Entries  []Entry
}

// IsCompressed reports whether data starts with the compressed stream magic.
func IsCompressed(data []byte) bool {
	return len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic
}

func align4(n int) int {
	return (n + chunkAlign - 1) &^ (chunkAlign - 1)
}
