package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// KeyValueRepository persists string values under (namespace, key) pairs in the kv_entries table.
//
// It backs the sqlite persistence substrate; each client profile is one namespace.
type KeyValueRepository struct {
	db *sql.DB
}

// NewKeyValueRepository creates a new [KeyValueRepository] with the given database connection
func NewKeyValueRepository(db *sql.DB) *KeyValueRepository {
	return &KeyValueRepository{db: db}
}

// Get returns the value stored under key and whether it exists.
func (r *KeyValueRepository) Get(namespace, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`, namespace, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query kv entry: %w", err)
	}
	return value, true, nil
}

// Set inserts or replaces the value under key.
func (r *KeyValueRepository) Set(namespace, key, value string) error {
	query := `
		INSERT INTO kv_entries (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, namespace, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert kv entry: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *KeyValueRepository) Delete(namespace, key string) error {
	if _, err := r.db.Exec(`DELETE FROM kv_entries WHERE namespace = ? AND key = ?`, namespace, key); err != nil {
		return fmt.Errorf("failed to delete kv entry: %w", err)
	}
	return nil
}

// Keys lists the keys stored in namespace in lexical order.
func (r *KeyValueRepository) Keys(namespace string) ([]string, error) {
	rows, err := r.db.Query(`SELECT key FROM kv_entries WHERE namespace = ? ORDER BY key ASC`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query kv keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan kv key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return keys, nil
}

// Clear removes every key in namespace.
func (r *KeyValueRepository) Clear(namespace string) error {
	if _, err := r.db.Exec(`DELETE FROM kv_entries WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("failed to clear namespace: %w", err)
	}
	return nil
}
