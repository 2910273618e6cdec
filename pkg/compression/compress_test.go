// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithmIsValid(t *testing.T) {
	tests := []struct {
		algo  Algorithm
		valid bool
	}{
		{None, true},
		{LZO, true},
		{LZ4, true},
		{ZSTD, true},
		{S2, true},
		{"", false},
		{"gzip", false},
		{"snappy", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.algo), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.algo.IsValid())
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input    string
		expected Algorithm
		wantErr  bool
	}{
		{"none", None, false},
		{"lzo", LZO, false},
		{"lz4", LZ4, false},
		{"zstd", ZSTD, false},
		{"s2", S2, false},
		{"", None, false},
		{"ZSTD", None, true}, // case sensitive
		{"gzip", None, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			algo, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, algo)
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "", None.Extension())
	assert.Equal(t, ".lz4", LZ4.Extension())
	assert.Equal(t, ".zst", ZSTD.Extension())
	assert.Equal(t, ".s2", S2.Extension())
	assert.Equal(t, ".lzo", LZO.Extension())
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	compressibleData := []byte(strings.Repeat("(define-extern foo function) ", 200))

	for _, algo := range []Algorithm{None, LZO, LZ4, ZSTD, S2} {
		t.Run(algo.String(), func(t *testing.T) {
			compressed, err := Compress(algo, compressibleData)
			require.NoError(t, err)

			decompressed, err := Decompress(algo, compressed)
			require.NoError(t, err)
			assert.Equal(t, compressibleData, decompressed)

			if algo != None {
				assert.Less(t, len(compressed), len(compressibleData))
			}
		})
	}
}

func TestDecompressLZORandomData(t *testing.T) {
	data := make([]byte, 4096)
	_, err := rand.Read(data)
	require.NoError(t, err)

	compressed, err := Compress(LZO, data)
	require.NoError(t, err)

	out, err := DecompressLZO(compressed, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestDecompressInvalidData(t *testing.T) {
	garbage := []byte("definitely not compressed data")

	for _, algo := range []Algorithm{LZ4, ZSTD, S2} {
		t.Run(algo.String(), func(t *testing.T) {
			_, err := Decompress(algo, garbage)
			assert.Error(t, err)
		})
	}
}

func TestCompressWriter(t *testing.T) {
	payload := []byte(strings.Repeat("0x00000000 0x3c020000\n", 500))

	for _, algo := range []Algorithm{None, LZ4, ZSTD} {
		t.Run(algo.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := CompressWriter(algo, &buf)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			out, err := Decompress(algo, buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestCompressWriterRejectsBlockOnly(t *testing.T) {
	assert.False(t, LZO.Streams())
	_, err := CompressWriter(LZO, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestCompressionRatio(t *testing.T) {
	assert.Equal(t, 1.0, CompressionRatio(100, 0))
	assert.Equal(t, 1.0, CompressionRatio(100, 150))
	assert.Equal(t, 4.0, CompressionRatio(100, 25))
}

func TestCompressWriterRecordsStreamBytes(t *testing.T) {
	in := CodecBytes.WithLabelValues(LZ4.String(), "compress", "in")
	out := CodecBytes.WithLabelValues(LZ4.String(), "compress", "out")
	beforeIn, beforeOut := testutil.ToFloat64(in), testutil.ToFloat64(out)

	payload := []byte(strings.Repeat("abcd", 1024))
	var buf bytes.Buffer
	w, err := CompressWriter(LZ4, &buf)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, float64(len(payload)), testutil.ToFloat64(in)-beforeIn)
	assert.Equal(t, float64(buf.Len()), testutil.ToFloat64(out)-beforeOut)
}
