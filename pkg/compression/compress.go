// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"fmt"
	"io"
)

// Compress compresses data using the specified algorithm.
// Returns the original data unchanged if algo is None or empty.
func Compress(algo Algorithm, data []byte) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch algo {
	case None, "":
		return data, nil
	case LZO:
		out, err = compressLZO(data)
	case LZ4:
		out, err = compressLZ4(data)
	case ZSTD:
		out, err = compressZSTD(data)
	case S2:
		out, err = compressS2(data)
	default:
		return nil, fmt.Errorf("unknown compression algorithm %q", algo)
	}
	if err != nil {
		return nil, err
	}
	RecordCompression(algo, len(data), len(out))
	return out, nil
}

// Decompress decompresses data using the specified algorithm.
// Returns the original data unchanged if algo is None or empty.
func Decompress(algo Algorithm, data []byte) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch algo {
	case None, "":
		return data, nil
	case LZO:
		out, err = DecompressLZO(data, 0)
	case LZ4:
		out, err = decompressLZ4(data)
	case ZSTD:
		out, err = decompressZSTD(data)
	case S2:
		out, err = decompressS2(data)
	default:
		return nil, fmt.Errorf("unknown compression algorithm %q", algo)
	}
	if err != nil {
		return nil, err
	}
	RecordDecompression(algo, len(data), len(out))
	return out, nil
}

// CompressWriter wraps a writer to compress data as it's written.
// The returned WriteCloser must be closed when done to flush remaining data;
// it does not close w. Stream sizes are recorded on Close.
func CompressWriter(algo Algorithm, w io.Writer) (io.WriteCloser, error) {
	switch algo {
	case None, "":
		return &nopWriteCloser{w}, nil
	}

	out := &countingWriter{w: w}
	var zw io.WriteCloser
	switch algo {
	case LZ4:
		zw = newLZ4CompressWriter(out)
	case ZSTD:
		zw = newZSTDCompressWriter(out)
	case S2:
		zw = newS2CompressWriter(out)
	default:
		return nil, fmt.Errorf("%s: streaming compression not supported", algo)
	}
	return &meteredWriteCloser{algo: algo, zw: zw, out: out}, nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// meteredWriteCloser counts bytes on both sides of a streaming codec.
type meteredWriteCloser struct {
	algo Algorithm
	zw   io.WriteCloser
	out  *countingWriter
	in   int
}

func (m *meteredWriteCloser) Write(p []byte) (int, error) {
	n, err := m.zw.Write(p)
	m.in += n
	return n, err
}

func (m *meteredWriteCloser) Close() error {
	err := m.zw.Close()
	RecordCompression(m.algo, m.in, m.out.n)
	return err
}

// CompressionRatio calculates the compression ratio (original / compressed).
// Returns 1.0 if compressed size is zero or larger than original.
func CompressionRatio(originalSize, compressedSize int) float64 {
	if compressedSize <= 0 || compressedSize >= originalSize {
		return 1.0
	}
	return float64(originalSize) / float64(compressedSize)
}

// nopWriteCloser wraps a Writer to add a no-op Close method
type nopWriteCloser struct {
	io.Writer
}

func (w *nopWriteCloser) Close() error {
	return nil
}
