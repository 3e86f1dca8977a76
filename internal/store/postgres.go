package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore keeps documents in a single key/jsonb table managed by the
// goose migration in migrations/. It is the backend to reach for when the
// demo outgrows a single machine; the document-per-key contract is the same
// as every other backend.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open database handle. The caller
// owns running migrations before first use.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load decodes the document under key into dest. Absent or undecodable
// documents leave dest untouched.
func (s *PostgresStore) Load(ctx context.Context, key string, dest any) error {
	query := `SELECT doc FROM store_documents WHERE key = $1`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load document %q: %w", key, err)
	}
	// Corrupt documents read as empty collections.
	_ = json.Unmarshal(raw, dest)
	return nil
}

// Save marshals value and overwrites the document unconditionally.
func (s *PostgresStore) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO store_documents (key, doc, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, key, raw); err != nil {
		return fmt.Errorf("failed to save document %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM store_documents WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete document %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
