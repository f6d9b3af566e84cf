package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory Store, used by tests and ephemeral runs.
type MemStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailKeys makes any write touching one of these keys fail.
	FailKeys map[string]error
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

func (m *MemStore) LoadRaw(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemStore) SaveRaw(ctx context.Context, key string, value []byte) error {
	return m.SaveManyRaw(ctx, map[string][]byte{key: value})
}

func (m *MemStore) SaveManyRaw(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range values {
		if !isKnownKey(key) {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		if err, ok := m.FailKeys[key]; ok {
			return err
		}
	}
	for key, v := range values {
		cp := make([]byte, len(v))
		copy(cp, v)
		m.values[key] = cp
	}
	return nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemStore) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
