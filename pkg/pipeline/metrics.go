// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"github.com/LeeDigitalWorks/objfiledb/pkg/debug"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StageDuration tracks how long each stage takes over the whole corpus.
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "objfiledb",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8), // 10ms to ~160s
	}, []string{"stage"})

	// ObjectsProcessed counts per-object stage bodies that completed.
	ObjectsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objfiledb",
		Subsystem: "pipeline",
		Name:      "objects_processed_total",
		Help:      "Objects processed, by stage",
	}, []string{"stage"})

	// PartialDecodes counts objects whose code region did not fully decode.
	PartialDecodes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "objfiledb",
		Subsystem: "pipeline",
		Name:      "partial_decodes_total",
		Help:      "Objects with fewer decoded instructions than code words",
	})

	// DumpBytes counts text written by dump stages, before compression.
	DumpBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objfiledb",
		Subsystem: "pipeline",
		Name:      "dump_bytes_total",
		Help:      "Bytes of dump text written",
	}, []string{"dump"})
)

func init() {
	debug.Registry().MustRegister(
		StageDuration,
		ObjectsProcessed,
		PartialDecodes,
		DumpBytes,
	)
}
