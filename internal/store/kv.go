package store

import (
	"context"
	"maps"
	"sync"
)

// KV is a durable, synchronous, string-keyed store.
type KV interface {
	// Read returns the value under key and whether it exists.
	Read(ctx context.Context, key string) (string, bool, error)
	// Write stores value under key.
	Write(ctx context.Context, key, value string) error
	// WriteAll stores every pair atomically: either all or none are
	// visible afterwards.
	WriteAll(ctx context.Context, pairs map[string]string) error
	// Delete removes keys.
	Delete(ctx context.Context, keys ...string) error
}

// Memory is an in-process KV. It is not durable and is meant for tests
// and dry runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ KV = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Write(ctx context.Context, key, value string) error {
	return m.WriteAll(ctx, map[string]string{key: value})
}

func (m *Memory) WriteAll(_ context.Context, pairs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.data, pairs)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
