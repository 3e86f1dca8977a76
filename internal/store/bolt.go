package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var documentsBucket = []byte("documents")

// BoltStore persists documents in a single-file bbolt database. This is the
// default backend: an embedded key-value file, the same shape of storage the
// storefront always assumed.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file at path and ensures the
// documents bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Load decodes the document under key into dest. Absent or undecodable
// documents leave dest untouched.
func (s *BoltStore) Load(ctx context.Context, key string, dest any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(documentsBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// Corrupt documents read as empty collections.
		_ = json.Unmarshal(raw, dest)
		return nil
	})
}

// Save marshals value and overwrites the document unconditionally.
func (s *BoltStore) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *BoltStore) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %q: %w", key, err)
	}
	return nil
}

// Close releases the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
