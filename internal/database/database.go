// Package database implements a single logical PicoRedis namespace: the
// tuple of the four typed stores plus keyspace-wide operations (§4.3).
package database

import (
	"fmt"

	"github.com/picoredis/picoredis/internal/store"
)

// Blobs is the serialized form of a Database's four typed stores, keyed by
// type tag, as handed to and returned from the persistence engine (§4.2
// last paragraph, §4.4).
type Blobs map[store.TypeTag][]byte

// storeOrder fixes the order Database.EraseKey and Keys walk the four
// typed stores, per §4.3 ("erases from the first that contains key").
var storeOrder = []store.TypeTag{store.TagString, store.TagHash, store.TagList, store.TagSet}

// Database owns exactly the four typed stores for one of PicoRedis's
// sixteen logical namespaces (§3).
type Database struct {
	Index  int
	String *store.StringStore
	Hash   *store.HashStore
	List   *store.ListStore
	Set    *store.SetStore

	dirty bool // true if any store mutated since the last successful snapshot
}

// New returns an empty database for the given index. seed feeds the
// string store's skip list RNG (§4.1), deterministic per instance.
func New(index int, seed int64) *Database {
	return &Database{
		Index:  index,
		String: store.NewString(seed),
		Hash:   store.NewHash(),
		List:   store.NewList(),
		Set:    store.NewSet(),
	}
}

// Store returns the TypedStore for tag. Every store already exists (they
// are allocated eagerly in New); this exists so callers can address a
// store generically by tag, matching §4.3's "get_store(type_tag)".
func (d *Database) Store(tag store.TypeTag) store.TypedStore {
	switch tag {
	case store.TagString:
		return d.String
	case store.TagHash:
		return d.Hash
	case store.TagList:
		return d.List
	case store.TagSet:
		return d.Set
	default:
		return nil
	}
}

func (d *Database) stores() []store.TypedStore {
	return []store.TypedStore{d.String, d.Hash, d.List, d.Set}
}

// Keys returns every key across all four stores matching pattern.
// Ordering is not guaranteed across types, per §4.3.
func (d *Database) Keys(pattern string) []string {
	var out []string
	for _, tag := range storeOrder {
		out = append(out, d.Store(tag).MatchKeys(pattern)...)
	}
	return out
}

// EraseKey removes key from the first store (in fixed type order) that
// contains it, reporting whether anything was removed.
func (d *Database) EraseKey(key string) bool {
	for _, tag := range storeOrder {
		if d.Store(tag).Erase(key) {
			d.dirty = true
			return true
		}
	}
	return false
}

// Exists reports whether key is present in any store.
func (d *Database) Exists(key string) bool {
	for _, tag := range storeOrder {
		if d.Store(tag).Contains(key) {
			return true
		}
	}
	return false
}

// DBSize returns the sum of all four stores' sizes.
func (d *Database) DBSize() int {
	total := 0
	for _, s := range d.stores() {
		total += s.Size()
	}
	return total
}

// TypeOf reports which store currently holds key, if any.
func (d *Database) TypeOf(key string) (store.TypeTag, bool) {
	for _, tag := range storeOrder {
		if d.Store(tag).Contains(key) {
			return tag, true
		}
	}
	return "", false
}

// MarkDirty flags the database as having mutated since the last snapshot;
// Database.Dirty mutator methods already do this, but command handlers
// that mutate through a TypedStore directly (rather than via EraseKey)
// must call it explicitly.
func (d *Database) MarkDirty() {
	d.dirty = true
}

// Dirty reports whether the database has mutated since the last
// successful snapshot (§4.7: the periodic flush skips clean databases).
func (d *Database) Dirty() bool {
	return d.dirty
}

// Snapshot returns the four serialized store blobs for persistence. It does
// not clear the dirty flag (the caller is expected to persist the blobs
// atomically and then call ClearDirty, so a failed persist leaves the flag
// set).
func (d *Database) Snapshot() Blobs {
	return Blobs{
		store.TagString: d.String.Serialize(),
		store.TagHash:    d.Hash.Serialize(),
		store.TagList:    d.List.Serialize(),
		store.TagSet:     d.Set.Serialize(),
	}
}

// ClearDirty resets the dirty flag after a successful persist.
func (d *Database) ClearDirty() {
	d.dirty = false
}

// Restore replaces each store's contents from a previously persisted blob
// set. Unrecognized tags fail the restore, per §4.4.
func (d *Database) Restore(blobs Blobs) error {
	for tag, blob := range blobs {
		s := d.Store(tag)
		if s == nil {
			return fmt.Errorf("restore: unrecognized tag %q", tag)
		}
		if err := s.Deserialize(blob); err != nil {
			return err
		}
	}
	return nil
}
