// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

// Package dgo reads and writes DGO containers: archives bundling named
// object files, optionally wrapped in a chunked LZO stream.
//
// Plain layout, all integers little-endian:
//
//	u32 entry count | char[60] container name
//	repeated: u32 size | char[60] entry name | size bytes
//
// Name fields are NUL-terminated and zero after the terminator.
//
// Compressed layout:
//
//	"oZlB" | u32 decompressed size
//	repeated: zero u32 padding words | u32 chunk size | chunk bytes
//
// Chunks start on 4-byte boundaries. A chunk size below MaxChunkSize is an
// LZO1X block of that many bytes; any larger value means MaxChunkSize raw
// bytes follow, whatever the literal size says.
package dgo
