// Package persistence snapshots each logical database's typed stores into
// an embedded ordered K/V store (§4.4). The embedded engine itself is
// treated as an opaque collaborator exposing put/get/iterate/write-batch
// with an optional sync flag (§1); bbolt fills that role here, grounded on
// the corpus (AKJUS-bsc-erigon's go.mod, several other_examples manifests).
package persistence

import (
	"fmt"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/picoredis/picoredis/internal/database"
	"github.com/picoredis/picoredis/internal/store"
)

// bucketName is the single bbolt bucket each database's file uses; the
// four typed-store blobs live as values keyed by their type tag string.
var bucketName = []byte("picoredis")

// recognizedTags maps the on-disk tag string back to a store.TypeTag,
// used to reject unknown tags on Load per §4.4.
var recognizedTags = map[string]store.TypeTag{
	string(store.TagString): store.TagString,
	string(store.TagHash):   store.TagHash,
	string(store.TagList):   store.TagList,
	string(store.TagSet):    store.TagSet,
}

// Engine wraps one bbolt file, the backing store for one logical database
// (§6: "directory ./data/db<N> per database index").
type Engine struct {
	db   *bbolt.DB
	log  *zap.Logger
	path string
}

// Open opens (creating if absent) the bbolt file at path and ensures the
// bucket exists. Open failure is fatal per §7.
func Open(path string, log *zap.Logger) (*Engine, error) {
	log = log.Named("persistence")
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bucket %s: %w", path, err)
	}
	return &Engine{db: db, log: log, path: path}, nil
}

// Close closes the underlying bbolt file.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Persist writes the four serialized store blobs as a single atomic batch.
// sync forces an fsync before the write commits (used for the final
// shutdown flush and any caller that cannot tolerate losing the write on
// crash); without it, bbolt still commits transactionally but may not be
// durable across a power loss, matching §4.4/§5's sync-flag contract.
func (e *Engine) Persist(blobs database.Blobs, sync bool) error {
	e.db.NoSync = !sync
	err := e.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		for tag, blob := range blobs {
			if err := b.Put([]byte(tag), blob); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist %s: %w", e.path, err)
	}
	return nil
}

// Load reads every recognized tag's blob out of the bucket and returns
// them ready for database.Database.Restore. An unrecognized tag present in
// the bucket fails the whole restore, per §4.4.
func (e *Engine) Load() (database.Blobs, error) {
	blobs := make(database.Blobs)
	err := e.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		return b.ForEach(func(k, v []byte) error {
			tag, ok := recognizedTags[string(k)]
			if !ok {
				return fmt.Errorf("unrecognized tag %q in %s", k, e.path)
			}
			// Copy: v is only valid for the lifetime of the transaction.
			cp := make([]byte, len(v))
			copy(cp, v)
			blobs[tag] = cp
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", e.path, err)
	}
	return blobs, nil
}
