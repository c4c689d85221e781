package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/learndash/internal/shared"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Backend is a namespaced string key-value substrate.
//
// Get reports a missing key as ("", false, nil). Remove on a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Remove(ctx context.Context, namespace, key string) error
	Close() error
}

// Store is the key-value view one client sees: a [Backend] fixed to a single namespace.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ProfileStore scopes a [Backend] to one profile namespace and wraps its failures in [PersistenceError].
type ProfileStore struct {
	backend   Backend
	namespace string
}

// Profile returns the [Store] for namespace on backend.
func Profile(backend Backend, namespace string) *ProfileStore {
	return &ProfileStore{backend: backend, namespace: namespace}
}

func (p *ProfileStore) Namespace() string { return p.namespace }

func (p *ProfileStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := p.backend.Get(ctx, p.namespace, key)
	if err != nil {
		return "", false, &PersistenceError{Op: "get", Key: key, Err: err}
	}
	return value, ok, nil
}

func (p *ProfileStore) Set(ctx context.Context, key, value string) error {
	if err := p.backend.Set(ctx, p.namespace, key, value); err != nil {
		return &PersistenceError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (p *ProfileStore) Remove(ctx context.Context, key string) error {
	if err := p.backend.Remove(ctx, p.namespace, key); err != nil {
		return &PersistenceError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// Open builds the backend named by cfg.Backend.
//
// The sqlite backend reuses db, which must already be migrated. The redis backend pings the server before returning.
func Open(ctx context.Context, cfg shared.StorageConfig, db *sql.DB) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("%w: sqlite storage needs a database", shared.ErrMissingConfig)
		}
		return NewSQLiteBackend(db), nil
	case BackendMemory:
		return NewMemoryBackend(), nil
	case BackendRedis:
		return OpenRedisBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}
