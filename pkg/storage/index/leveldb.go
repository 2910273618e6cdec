// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/LeeDigitalWorks/objfiledb/pkg/utils"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type LevelDBIndexer[K comparable, V any] struct {
	db         *leveldb.DB
	dbDir      string
	keyToBytes func(K) []byte

	writeOpts     *opt.WriteOptions
	writeOptsSync *opt.WriteOptions
}

func serialize[T any](v T) ([]byte, error) {
	buf := utils.SyncPoolGetBuffer()
	defer utils.SyncPoolPutBuffer(buf)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

func deserialize[T any](data []byte) (T, error) {
	var v T
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v)
	return v, err
}

// NewLevelDBIndexer opens (or creates) a LevelDB index in dbDir, recovering
// it if the manifest is corrupted.
func NewLevelDBIndexer[K comparable, V any](
	dbDir string,
	opts *opt.Options,
	keyToBytes func(K) []byte) (*LevelDBIndexer[K, V], error) {
	db, err := leveldb.OpenFile(dbDir, opts)
	if lerrors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(dbDir, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", dbDir, err)
	}
	return &LevelDBIndexer[K, V]{
		db:            db,
		dbDir:         dbDir,
		keyToBytes:    keyToBytes,
		writeOpts:     &opt.WriteOptions{Sync: false},
		writeOptsSync: &opt.WriteOptions{Sync: true},
	}, nil
}

// NewStringKeyLevelDBIndexer is NewLevelDBIndexer for string keys.
func NewStringKeyLevelDBIndexer[V any](dbDir string) (*LevelDBIndexer[string, V], error) {
	return NewLevelDBIndexer[string, V](dbDir, nil,
		func(k string) []byte { return []byte(k) })
}

func (m *LevelDBIndexer[K, V]) Put(key K, value V) error {
	data, err := serialize(value)
	if err != nil {
		return err
	}
	return m.db.Put(m.keyToBytes(key), data, m.writeOpts)
}

func (m *LevelDBIndexer[K, V]) Get(key K) (V, error) {
	var zero V
	data, err := m.db.Get(m.keyToBytes(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	v, err := deserialize[V](data)
	if err != nil {
		return zero, err
	}
	return v, nil
}

func (m *LevelDBIndexer[K, V]) Delete(key K) error {
	return m.db.Delete(m.keyToBytes(key), m.writeOpts)
}

func (m *LevelDBIndexer[K, V]) Close() error {
	return m.db.Close()
}

// Sync forces all buffered writes to disk with an empty synced batch.
func (m *LevelDBIndexer[K, V]) Sync() error {
	return m.db.Write(new(leveldb.Batch), m.writeOptsSync)
}

func (m *LevelDBIndexer[K, V]) Destroy() error {
	if err := m.Close(); err != nil && !errors.Is(err, leveldb.ErrClosed) {
		return err
	}
	return os.RemoveAll(m.dbDir)
}
