// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package objdb

import (
	"bytes"
	"fmt"

	"github.com/LeeDigitalWorks/objfiledb/pkg/types"
	"github.com/LeeDigitalWorks/objfiledb/pkg/utils"
)

// Insert records that entry name with the given bytes appeared in
// container. It returns the variant the bytes map to and whether that
// variant was created by this call.
//
// Two entries are the same variant when name, length and CRC-32 all match.
// Bytes are not compared, so a CRC collision at equal length folds two
// different objects into one variant. Variant numbering depends on this.
//
// If storing the bytes fails the database is left unchanged.
func (db *DB) Insert(container, name string, data []byte) (types.ObjectRecord, bool, error) {
	b := db.newBatch(container)
	obj, isNew, err := b.add(name, data)
	if err != nil {
		b.abort()
		return types.ObjectRecord{}, false, err
	}
	b.commit()
	return obj.Record, isNew, nil
}

// batch stages the placements of one container. New variants get their
// bytes stored as they are staged; nothing else becomes visible until
// commit, and abort removes the stored bytes again.
type batch struct {
	db        *DB
	container string

	placements []*ObjectData
	created    []bool
	// staged holds variants created by this batch, per name, in version order.
	staged map[string][]*ObjectData
	stored []string
}

func (db *DB) newBatch(container string) *batch {
	return &batch{
		db:        db,
		container: container,
		staged:    make(map[string][]*ObjectData),
	}
}

func (b *batch) match(name string, size int, hash uint32) *ObjectData {
	for _, variants := range [][]*ObjectData{b.db.byName[name], b.staged[name]} {
		for _, obj := range variants {
			if obj.Size == size && obj.Record.Hash == hash {
				return obj
			}
		}
	}
	return nil
}

func (b *batch) add(name string, data []byte) (*ObjectData, bool, error) {
	hash := utils.Crc32(data)
	if obj := b.match(name, len(data), hash); obj != nil {
		b.placements = append(b.placements, obj)
		b.created = append(b.created, false)
		return obj, false, nil
	}

	rec := types.ObjectRecord{
		Name:    name,
		Version: len(b.db.byName[name]) + len(b.staged[name]),
		Hash:    hash,
	}
	if err := b.db.blobs.Put(rec.UniqueName(), bytes.Clone(data)); err != nil {
		return nil, false, fmt.Errorf("store %s: %w", rec.UniqueName(), err)
	}
	b.stored = append(b.stored, rec.UniqueName())

	obj := &ObjectData{Record: rec, Size: len(data)}
	b.staged[name] = append(b.staged[name], obj)
	b.placements = append(b.placements, obj)
	b.created = append(b.created, true)
	return obj, true, nil
}

// abort deletes the bytes stored by the batch. A key left behind by a failed
// Delete is overwritten when the version is next assigned.
func (b *batch) abort() {
	for _, key := range b.stored {
		_ = b.db.blobs.Delete(key)
	}
	b.stored = nil
}

func (b *batch) commit() {
	db := b.db
	if len(b.placements) > 0 {
		db.containerNames.ReplaceOrInsert(b.container)
	}

	for i, obj := range b.placements {
		db.stats.TotalObjFiles++
		obj.RefCount++
		db.byContainer[b.container] = append(db.byContainer[b.container], obj.Record)

		if !b.created[i] {
			ObjectOperations.WithLabelValues("deduplicate").Inc()
			continue
		}

		name := obj.Record.Name
		if len(db.byName[name]) == 0 {
			db.nameOrder = append(db.nameOrder, name)
		}
		db.byName[name] = append(db.byName[name], obj)

		db.stats.UniqueObjFiles++
		db.stats.UniqueObjBytes += uint64(obj.Size)
		ObjectOperations.WithLabelValues("create").Inc()
		UniqueObjectBytes.Add(float64(obj.Size))
	}
}
