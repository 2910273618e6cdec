// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

// Package index provides small key/value indexes used to hold object bytes
// outside the Go heap when a corpus is large.
package index

import (
	"errors"
	"io"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("index: key not found")

type Indexer[K comparable, V any] interface {
	io.Closer
	Put(key K, value V) error
	Get(key K) (V, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key K) error

	// Destroy removes the underlying index data
	Destroy() error

	// Sync forces buffered writes to disk
	Sync() error
}
