package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps entries in process memory. Contents are lost on exit.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, namespace, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[namespace][key]
	return value, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.entries[namespace]
	if !ok {
		ns = make(map[string]string)
		m.entries[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[namespace], key)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
