package storage

import (
	"context"
	"database/sql"

	"github.com/desertthunder/learndash/internal/repositories"
)

// SQLiteBackend stores entries in the kv_entries table through [repositories.KeyValueRepository].
//
// The database handle is owned by the caller; Close does not close it.
type SQLiteBackend struct {
	repo *repositories.KeyValueRepository
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{repo: repositories.NewKeyValueRepository(db)}
}

func (s *SQLiteBackend) Get(_ context.Context, namespace, key string) (string, bool, error) {
	return s.repo.Get(namespace, key)
}

func (s *SQLiteBackend) Set(_ context.Context, namespace, key, value string) error {
	return s.repo.Set(namespace, key, value)
}

func (s *SQLiteBackend) Remove(_ context.Context, namespace, key string) error {
	return s.repo.Delete(namespace, key)
}

func (s *SQLiteBackend) Close() error { return nil }
