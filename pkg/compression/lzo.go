// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"bytes"
	"fmt"

	lzo "github.com/rasky/go-lzo"
)

func compressLZO(data []byte) ([]byte, error) {
	return lzo.Compress1X(data), nil
}

// DecompressLZO decodes one LZO1X block. sizeHint preallocates the output
// and may be zero.
func DecompressLZO(block []byte, sizeHint int) ([]byte, error) {
	out, err := lzo.Decompress1X(bytes.NewReader(block), len(block), sizeHint)
	if err != nil {
		return nil, fmt.Errorf("lzo decompress: %w", err)
	}
	return out, nil
}
