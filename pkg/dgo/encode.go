// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package dgo

import (
	"encoding/binary"
	"fmt"

	"github.com/LeeDigitalWorks/objfiledb/pkg/compression"
)

// Encode builds a plain container named name holding entries in order.
// Entry offsets are ignored.
func Encode(name string, entries []Entry) ([]byte, error) {
	total := HeaderSize
	for _, e := range entries {
		total += HeaderSize + len(e.Data)
	}

	out := make([]byte, 0, total)
	var err error
	if out, err = appendHeader(out, uint32(len(entries)), name); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if out, err = appendHeader(out, uint32(len(e.Data)), e.Name); err != nil {
			return nil, err
		}
		out = append(out, e.Data...)
	}
	return out, nil
}

func appendHeader(out []byte, size uint32, name string) ([]byte, error) {
	if len(name) >= NameFieldSize {
		return nil, fmt.Errorf("name %q longer than %d bytes", name, NameFieldSize-1)
	}
	out = binary.LittleEndian.AppendUint32(out, size)
	var field [NameFieldSize]byte
	copy(field[:], name)
	return append(out, field[:]...), nil
}

// CompressStream wraps a plain container body in the chunked stream format.
// Each MaxChunkSize slice of body becomes one LZO chunk, or a raw chunk when
// LZO does not bring it under MaxChunkSize.
func CompressStream(body []byte) ([]byte, error) {
	out := make([]byte, 0, compressedPrologueSize+len(body)/2)
	out = append(out, Magic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))

	for start := 0; start < len(body); start += MaxChunkSize {
		end := min(start+MaxChunkSize, len(body))
		block := body[start:end]

		packed, err := compression.Compress(compression.LZO, block)
		if err != nil {
			return nil, err
		}
		if len(packed) < MaxChunkSize {
			out = binary.LittleEndian.AppendUint32(out, uint32(len(packed)))
			out = append(out, packed...)
		} else {
			if len(block) != MaxChunkSize {
				return nil, fmt.Errorf("final chunk of 0x%x bytes does not compress below 0x%x", len(block), MaxChunkSize)
			}
			out = binary.LittleEndian.AppendUint32(out, MaxChunkSize)
			out = append(out, block...)
		}
		for len(out)%chunkAlign != 0 {
			out = append(out, 0)
		}
	}
	return out, nil
}
