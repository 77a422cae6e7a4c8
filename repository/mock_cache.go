package repository

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCacheUnavailable = errors.New("cache unavailable")

type cacheEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MockCache is an in-process CacheRepository. It backs the server when Redis
// is disabled and doubles as the cache in tests; ForceError makes every call
// fail with ErrCacheUnavailable.
type MockCache struct {
	mu         sync.Mutex
	data       map[string]cacheEntry
	now        func() time.Time
	ForceError bool
	Gets       int
	Sets       int
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]cacheEntry),
		now:  time.Now,
	}
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Gets++
	if m.ForceError {
		return "", false, ErrCacheUnavailable
	}

	entry, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.data, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MockCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sets++
	if m.ForceError {
		return ErrCacheUnavailable
	}

	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

func (m *MockCache) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError {
		return ErrCacheUnavailable
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
