// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package objdb

import (
	"github.com/LeeDigitalWorks/objfiledb/pkg/debug"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ContainersIngested counts containers decoded, labelled by framing.
	ContainersIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objfiledb",
		Subsystem: "ingest",
		Name:      "containers_total",
		Help:      "Containers decoded",
	}, []string{"framing"}) // framing: "plain", "compressed"

	// ContainerBytes counts raw container bytes read.
	ContainerBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "objfiledb",
		Subsystem: "ingest",
		Name:      "container_bytes_total",
		Help:      "Raw container bytes read, before decompression",
	})

	// ObjectOperations counts object insertions by outcome.
	ObjectOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objfiledb",
		Subsystem: "ingest",
		Name:      "object_operations_total",
		Help:      "Object file insertions by outcome",
	}, []string{"operation"}) // operation: "create", "deduplicate"

	// UniqueObjectBytes counts bytes of newly stored variants.
	UniqueObjectBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "objfiledb",
		Subsystem: "ingest",
		Name:      "unique_object_bytes_total",
		Help:      "Bytes of distinct object file variants stored",
	})
)

func init() {
	debug.Registry().MustRegister(
		ContainersIngested,
		ContainerBytes,
		ObjectOperations,
		UniqueObjectBytes,
	)
}
