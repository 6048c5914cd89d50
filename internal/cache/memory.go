package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in tests and as a fallback when no
// Redis instance is wired. Entries expire lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) bool {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return true
}

func (m *MemoryStore) Delete(_ context.Context, key string) bool {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return true
}

// DeletePattern supports the prefix form used by the repositories: a pattern
// ending in "*" deletes every key with that prefix, anything else is an exact
// match.
func (m *MemoryStore) DeletePattern(_ context.Context, pattern string) int {
	prefix, wildcard := strings.CutSuffix(pattern, "*")

	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for key := range m.entries {
		if (wildcard && strings.HasPrefix(key, prefix)) || (!wildcard && key == pattern) {
			delete(m.entries, key)
			count++
		}
	}
	return count
}

func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Len reports the number of live entries, used by tests.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Has reports whether key is present, used by tests.
func (m *MemoryStore) Has(key string) bool {
	_, ok := m.Get(context.Background(), key)
	return ok
}
