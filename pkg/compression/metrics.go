// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"github.com/LeeDigitalWorks/objfiledb/pkg/debug"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CodecBytes counts bytes through each codec. side is "in" for bytes
	// handed to the codec and "out" for bytes it produced.
	CodecBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objfiledb",
		Subsystem: "codec",
		Name:      "bytes_total",
		Help:      "Bytes passed through block codecs",
	}, []string{"algorithm", "op", "side"})

	// CompressionRatioHist tracks original/compressed size per block.
	CompressionRatioHist = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "objfiledb",
		Subsystem: "codec",
		Name:      "compression_ratio",
		Help:      "Compression ratio (original_size / compressed_size)",
		Buckets:   []float64{1.0, 1.25, 1.5, 2.0, 3.0, 4.0, 5.0, 10.0},
	}, []string{"algorithm"})
)

func init() {
	debug.Registry().MustRegister(CodecBytes, CompressionRatioHist)
}

// RecordCompression records one compressed block, or one finished stream.
func RecordCompression(algo Algorithm, originalSize, compressedSize int) {
	a := algo.String()
	CodecBytes.WithLabelValues(a, "compress", "in").Add(float64(originalSize))
	CodecBytes.WithLabelValues(a, "compress", "out").Add(float64(compressedSize))
	CompressionRatioHist.WithLabelValues(a).Observe(CompressionRatio(originalSize, compressedSize))
}

// RecordDecompression records one decompressed block.
func RecordDecompression(algo Algorithm, compressedSize, originalSize int) {
	a := algo.String()
	CodecBytes.WithLabelValues(a, "decompress", "in").Add(float64(compressedSize))
	CodecBytes.WithLabelValues(a, "decompress", "out").Add(float64(originalSize))
}
