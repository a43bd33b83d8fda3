package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory Store used by tests and local development.
// It honors TTLs using an injectable clock.
type Memory struct {
	mu      sync.Mutex
	records map[string]map[string]string
	expiry  map[string]time.Time
	now     func() time.Time
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]map[string]string),
		expiry:  make(map[string]time.Time),
		now:     time.Now,
	}
}

// SetClock replaces the store's notion of "now". Tests use it to verify
// expiry behavior deterministically.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) GetFields(ctx context.Context, key string, fields []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evict(key)

	result := make(map[string]string)
	rec, ok := m.records[key]
	if !ok {
		return result, nil
	}
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			result[f] = v
		}
	}
	return result, nil
}

func (m *Memory) SetFields(ctx context.Context, key string, values map[string]string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evict(key)

	rec, ok := m.records[key]
	if !ok {
		rec = make(map[string]string, len(values))
		m.records[key] = rec
	}
	for f, v := range values {
		rec[f] = v
	}
	m.expiry[key] = m.now().Add(ttl)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	delete(m.expiry, key)
	return nil
}

// evict drops the record if its TTL has lapsed. Callers must hold mu.
func (m *Memory) evict(key string) {
	if exp, ok := m.expiry[key]; ok && m.now().After(exp) {
		delete(m.records, key)
		delete(m.expiry, key)
	}
}
