// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package dcmpcache keeps decompressed resource data, keyed by a hash of the
// compressed bytes, in memory and optionally on disk.
package dcmpcache

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"sync"

	"github.com/cockroachdb/pebble/v2"
	"github.com/dgryski/go-tinylfu"
)

const keyPrefix = "dcmp"

// A Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu  sync.Mutex
	mem *tinylfu.T[uint64, []byte]
	db  *pebble.DB // nil if memory only
}

// New makes a memory-only cache holding about entries items.
func New(entries int) *Cache {
	entries = max(entries, 1)
	return &Cache{
		mem: tinylfu.New[uint64, []byte](entries, entries*10, hasher),
	}
}

// Open backs the memory cache with a database in dir, created if need be.
func Open(entries int, dir string) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	c := New(entries)
	c.db = db
	return c, nil
}

// The keys are hashes already
func hasher(k uint64) uint64 { return k }

func dbKey(k uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte(keyPrefix), k)
}

// Get returns data that must not be modified.
func (c *Cache) Get(key uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.mem.Get(key); ok {
		return data, true
	}
	if c.db == nil {
		return nil, false
	}

	val, closer, err := c.db.Get(dbKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false
	} else if err != nil {
		slog.Warn("dcmpCacheReadError", "key", key, "err", err)
		return nil, false
	}
	data := append([]byte(nil), val...)
	closer.Close()
	c.mem.Add(key, data)
	return data, true
}

// Put takes ownership of data.
func (c *Cache) Put(key uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem.Add(key, data)
	if c.db != nil {
		if err := c.db.Set(dbKey(key), data, pebble.NoSync); err != nil {
			slog.Warn("dcmpCacheWriteError", "key", key, "err", err)
		}
	}
}

// Close flushes the database, if any.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
