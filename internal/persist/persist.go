// Package persist implements Component O: optional durability for a
// block's (exec_count, last_exec) pair across process restarts, resolving
// spec §9's open question in favor of "yes, opt-in" (SPEC_FULL.md §4.O).
//
// Grounded on Comcast-sheens's dependency on go.etcd.io/bbolt, used there to
// persist automaton/machine state across restarts — the same
// single-bucket, key-by-name durability shape this component needs.
package persist

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("exec_counters")

// Store is a bbolt-backed registry.Store implementation.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a bbolt database at path and ensures
// its single bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("persist: init bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Load implements registry.Store.
func (s *Store) Load(blockName string) (execCount int64, lastExec int64, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		raw := b.Get([]byte(blockName))
		if raw == nil {
			return nil
		}
		if len(raw) != 16 {
			return fmt.Errorf("persist: corrupt record for %q (%d bytes)", blockName, len(raw))
		}
		execCount = int64(binary.BigEndian.Uint64(raw[0:8]))
		lastExec = int64(binary.BigEndian.Uint64(raw[8:16]))
		ok = true
		return nil
	})
	return execCount, lastExec, ok, err
}

// Save implements registry.Store.
func (s *Store) Save(blockName string, execCount int64, lastExec int64) error {
	raw := make([]byte, 16)
	binary.BigEndian.PutUint64(raw[0:8], uint64(execCount))
	binary.BigEndian.PutUint64(raw[8:16], uint64(lastExec))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(blockName), raw)
	})
}

// Delete implements registry.Store.
func (s *Store) Delete(blockName string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(blockName))
	})
}
