// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

// Package objdb is the object file database: it ingests containers,
// deduplicates the object files inside them and keeps the orderings later
// passes and reports depend on.
package objdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/LeeDigitalWorks/objfiledb/pkg/dgo"
	"github.com/LeeDigitalWorks/objfiledb/pkg/linked"
	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"
	"github.com/LeeDigitalWorks/objfiledb/pkg/storage/index"
	"github.com/LeeDigitalWorks/objfiledb/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/google/btree"
)

// ErrObjectNotFound is returned when a record does not name a stored variant.
var ErrObjectNotFound = errors.New("object not found")

// ObjectData is one distinct object file variant. Exactly one exists per
// (name, size, hash). Its bytes live in the database's blob index.
type ObjectData struct {
	Record types.ObjectRecord
	Size   int
	// RefCount is the number of placements referring to this variant.
	RefCount int

	// Annotation is written by pipeline stages, one stage at a time.
	Annotation linked.Annotation
}

// Options selects where canonical object bytes are kept.
type Options struct {
	BlobIndex types.BlobIndexKind
	// BlobIndexPath is the LevelDB directory. When empty a scratch
	// directory is created and removed again by Close.
	BlobIndexPath string
}

// DB is written only while containers are added and is read-only after.
type DB struct {
	blobs index.Indexer[string, []byte]

	// byName holds variants in version order.
	byName map[string][]*ObjectData
	// nameOrder is the order names were first seen in.
	nameOrder []string
	// byContainer holds placements in the order they were decoded.
	byContainer map[string][]types.ObjectRecord
	// containerNames keeps container names sorted for the listing.
	containerNames *btree.BTreeG[string]

	stats types.Stats
	// scratchDir is set when the blob index lives in a directory owned by db.
	scratchDir string
}

// New creates an empty database.
func New(opts Options) (*DB, error) {
	db := &DB{
		byName:         make(map[string][]*ObjectData),
		byContainer:    make(map[string][]types.ObjectRecord),
		containerNames: btree.NewOrderedG[string](2),
	}

	switch opts.BlobIndex {
	case types.BlobIndexLevelDB:
		dir := opts.BlobIndexPath
		if dir == "" {
			tmp, err := os.MkdirTemp("", "objfiledb-blobs-")
			if err != nil {
				return nil, fmt.Errorf("create blob index: %w", err)
			}
			dir = tmp
			db.scratchDir = tmp
		}
		blobs, err := index.NewStringKeyLevelDBIndexer[[]byte](dir)
		if err != nil {
			if db.scratchDir != "" {
				os.RemoveAll(db.scratchDir)
			}
			return nil, fmt.Errorf("create blob index: %w", err)
		}
		db.blobs = blobs
	case types.BlobIndexMemory, "":
		db.blobs = index.NewMemoryIndexer[string, []byte]()
	default:
		return nil, fmt.Errorf("unknown blob index kind %q", opts.BlobIndex)
	}

	return db, nil
}

// Open builds a database from container files, in the order given. Any
// container that fails to decode aborts the whole build.
func Open(ctx context.Context, opts Options, paths []string) (*DB, error) {
	start := time.Now()
	logger.Ctx(ctx).Info().Int("containers", len(paths)).Msg("initializing object file database")

	db, err := New(opts)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			db.Close()
			return nil, err
		}
		if err := db.AddContainerFile(ctx, path); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := db.blobs.Sync(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sync blob index: %w", err)
	}

	elapsed := time.Since(start)
	secs := max(elapsed.Seconds(), 1e-9)
	logger.Ctx(ctx).Info().
		Int("total_containers", db.stats.TotalContainers).
		Str("total_data", humanize.IBytes(db.stats.TotalContainerBytes)).
		Int("total_objs", db.stats.TotalObjFiles).
		Int("unique_objs", db.stats.UniqueObjFiles).
		Str("unique_data", humanize.IBytes(db.stats.UniqueObjBytes)).
		Dur("elapsed", elapsed).
		Float64("mb_per_sec", float64(db.stats.TotalContainerBytes)/float64(1<<20)/secs).
		Float64("objs_per_sec", float64(db.stats.TotalObjFiles)/secs).
		Msg("object file database initialized")

	return db, nil
}

// AddContainerFile reads and ingests one container file. The container is
// known by its file name without directory.
func (db *DB) AddContainerFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read container: %w", err)
	}
	return db.AddContainer(ctx, filepath.Base(path), data)
}

// AddContainer decodes a container and inserts every entry. Nothing is
// inserted if decoding or storing any entry fails.
func (db *DB) AddContainer(ctx context.Context, name string, data []byte) error {
	c, err := dgo.Decode(data, name)
	if err != nil {
		return err
	}

	b := db.newBatch(name)
	added := 0
	for _, e := range c.Entries {
		_, isNew, err := b.add(e.Name, e.Data)
		if err != nil {
			b.abort()
			return fmt.Errorf("container %s: entry %q at 0x%x: %w", name, e.Name, e.Offset, err)
		}
		if isNew {
			added++
		}
	}
	b.commit()

	db.stats.TotalContainers++
	db.stats.TotalContainerBytes += uint64(len(data))
	framing := "plain"
	if c.Compressed {
		framing = "compressed"
	}
	ContainersIngested.WithLabelValues(framing).Inc()
	ContainerBytes.Add(float64(len(data)))

	logger.Ctx(ctx).Debug().
		Str("container", name).
		Str("framing", framing).
		Int("entries", len(c.Entries)).
		Int("new_objects", added).
		Str("body", humanize.IBytes(uint64(c.BodySize))).
		Msg("container ingested")
	return nil
}

// Stats returns the ingestion counters.
func (db *DB) Stats() types.Stats {
	return db.stats
}

// Objects returns every variant ordered by the first appearance of its name,
// then by version.
func (db *DB) Objects() []*ObjectData {
	out := make([]*ObjectData, 0, db.stats.UniqueObjFiles)
	for _, name := range db.nameOrder {
		out = append(out, db.byName[name]...)
	}
	return out
}

// Names returns logical names in first-seen order.
func (db *DB) Names() []string {
	return slices.Clone(db.nameOrder)
}

// Variants returns the variants stored under name in version order.
func (db *DB) Variants(name string) []*ObjectData {
	return slices.Clone(db.byName[name])
}

// Object looks up the variant a record refers to.
func (db *DB) Object(rec types.ObjectRecord) (*ObjectData, error) {
	variants := db.byName[rec.Name]
	if rec.Version < 0 || rec.Version >= len(variants) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, rec.UniqueName())
	}
	return variants[rec.Version], nil
}

// Bytes returns the canonical bytes of obj. Callers must not modify them.
func (db *DB) Bytes(obj *ObjectData) ([]byte, error) {
	data, err := db.blobs.Get(obj.Record.UniqueName())
	if errors.Is(err, index.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, obj.Record.UniqueName())
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", obj.Record.UniqueName(), err)
	}
	return data, nil
}

// Containers returns container names sorted ascending.
func (db *DB) Containers() []string {
	names := make([]string, 0, db.containerNames.Len())
	db.containerNames.Ascend(func(name string) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Placements returns the records placed in container, in decode order.
func (db *DB) Placements(container string) []types.ObjectRecord {
	return slices.Clone(db.byContainer[container])
}

// Close releases the blob index, deleting it if it was a scratch index.
func (db *DB) Close() error {
	if db.scratchDir != "" {
		return db.blobs.Destroy()
	}
	return db.blobs.Close()
}
