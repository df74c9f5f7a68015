package localstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store, the default when no redis is configured.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) GetItem(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
