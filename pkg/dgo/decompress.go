// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package dgo

import (
	"encoding/binary"

	"github.com/LeeDigitalWorks/objfiledb/pkg/compression"
)

// Decompress reverses the chunked stream of a compressed container and
// returns the plain body. data must start with Magic.
//
// Decoding stops as soon as the declared size has been produced; nothing
// after that point is read.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return nil, decodeFailure(0, nil, "missing %q magic", Magic)
	}
	if len(data) < compressedPrologueSize {
		return nil, decodeFailure(len(Magic), nil, "stream too short for decompressed size")
	}

	size := int(binary.LittleEndian.Uint32(data[len(Magic):]))
	// Each chunk costs at least one header word and yields at most
	// MaxChunkSize bytes.
	words := len(data) / 4
	out := make([]byte, 0, min(size, (words+1)*MaxChunkSize))
	cursor := compressedPrologueSize

	for len(out) < size {
		var chunkSize int
		for chunkSize == 0 {
			if cursor+4 > len(data) {
				return nil, decodeFailure(cursor, nil,
					"stream ended after 0x%x of 0x%x decompressed bytes", len(out), size)
			}
			chunkSize = int(binary.LittleEndian.Uint32(data[cursor:]))
			cursor += 4
		}

		if chunkSize < MaxChunkSize {
			if cursor+chunkSize > len(data) {
				return nil, decodeFailure(cursor, nil,
					"chunk of 0x%x bytes runs past end of stream (0x%x)", chunkSize, len(data))
			}
			block, err := compression.DecompressLZO(data[cursor:cursor+chunkSize], MaxChunkSize)
			if err != nil {
				return nil, decodeFailure(cursor, err, "corrupt chunk of 0x%x bytes", chunkSize)
			}
			out = append(out, block...)
			cursor += chunkSize
		} else {
			// Oversized chunk sizes still mean exactly one raw MaxChunkSize block.
			if cursor+MaxChunkSize > len(data) {
				return nil, decodeFailure(cursor, nil,
					"raw chunk runs past end of stream (0x%x)", len(data))
			}
			out = append(out, data[cursor:cursor+MaxChunkSize]...)
			cursor += MaxChunkSize
		}

		if len(out) > size {
			return nil, decodeFailure(cursor, nil,
				"stream produced 0x%x bytes, more than the declared 0x%x", len(out), size)
		}
		cursor = align4(cursor)
	}

	return out, nil
}
