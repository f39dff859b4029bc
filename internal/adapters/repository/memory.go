package repository

import (
	"context"
	"sync"
)

// memoryBackend keeps encoded histories in a map. Nothing survives a restart.
type memoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an in-process store.
func NewMemory(opts ...Option) *HistoryStore {
	return newHistoryStore(&memoryBackend{records: make(map[string][]byte)}, opts...)
}

func (m *memoryBackend) name() string { return BackendMemory }

func (m *memoryBackend) load(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.records[sessionID]
	if !ok {
		return nil, errNoRecord
	}
	return append([]byte(nil), data...), nil
}

func (m *memoryBackend) save(_ context.Context, sessionID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sessionID] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBackend) remove(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}

func (m *memoryBackend) close() error { return nil }
