package state

import (
	"context"
	"errors"
	"sync"
)

// Substrate is the key-value storage the store persists into. A single
// Put must be atomic for its key: readers see the old or the new value,
// never a partial one.
type Substrate interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ErrQuotaExceeded is returned by MemorySubstrate when it is over quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// MemorySubstrate keeps values in a map. Quota, when positive, caps the
// size of any single value, which lets tests exercise write failures.
type MemorySubstrate struct {
	mu     sync.Mutex
	values map[string][]byte
	Quota  int
	GetErr error
}

// NewMemorySubstrate returns an empty in-memory substrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{values: make(map[string][]byte)}
}

func (m *MemorySubstrate) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemorySubstrate) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Quota > 0 && len(value) > m.Quota {
		return ErrQuotaExceeded
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Raw sets a value directly, bypassing quota. Tests use it to plant
// corrupt records.
func (m *MemorySubstrate) Raw(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
