// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/s2"
)

var s2WriterPool = sync.Pool{
	New: func() any {
		return s2.NewWriter(nil, s2.WriterConcurrency(1))
	},
}

func compressS2(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func decompressS2(data []byte) ([]byte, error) {
	decompressed, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompress: %w", err)
	}
	return decompressed, nil
}

func newS2CompressWriter(w io.Writer) io.WriteCloser {
	sw := s2WriterPool.Get().(*s2.Writer)
	sw.Reset(w)
	return &pooledS2Writer{Writer: sw}
}

type pooledS2Writer struct {
	*s2.Writer
}

func (w *pooledS2Writer) Close() error {
	err := w.Writer.Close()
	w.Reset(nil)
	s2WriterPool.Put(w.Writer)
	return err
}
