// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

// Package compression provides the block codecs used by objfiledb: LZO1X for
// the chunked container stream, and LZ4, ZSTD and S2 for dump output.
package compression

import "fmt"

// Algorithm represents a compression algorithm
type Algorithm string

const (
	// None indicates no compression
	None Algorithm = "none"
	// LZO is LZO1X, the block codec used inside compressed containers.
	// It is block-only; there is no streaming writer for it.
	LZO Algorithm = "lzo"
	// LZ4 uses the LZ4 frame format (fast, moderate ratio)
	LZ4 Algorithm = "lz4"
	// ZSTD uses the Zstandard compression algorithm (balanced speed/ratio)
	ZSTD Algorithm = "zstd"
	// S2 uses klauspost's S2 compression (faster than Snappy, better ratio)
	S2 Algorithm = "s2"
)

// IsValid returns true if the algorithm is recognized
func (a Algorithm) IsValid() bool {
	switch a {
	case None, LZO, LZ4, ZSTD, S2:
		return true
	default:
		return false
	}
}

// Streams reports whether CompressWriter supports the algorithm.
func (a Algorithm) Streams() bool {
	switch a {
	case None, "", LZ4, ZSTD, S2:
		return true
	default:
		return false
	}
}

// Extension returns the file name suffix for output written with the
// algorithm, including the leading dot. None has no suffix.
func (a Algorithm) Extension() string {
	switch a {
	case LZO:
		return ".lzo"
	case LZ4:
		return ".lz4"
	case ZSTD:
		return ".zst"
	case S2:
		return ".s2"
	default:
		return ""
	}
}

// String returns the string representation of the algorithm
func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm parses a configured codec name. The empty string means
// None; unknown names are an error.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return None, nil
	}
	algo := Algorithm(s)
	if !algo.IsValid() {
		return None, fmt.Errorf("unknown compression algorithm %q", s)
	}
	return algo, nil
}
