package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// TTLMap is a concurrent in-memory cache with a per-key TTL.
// - Safe for concurrent use.
// - Default TTL applied when Set is called with ttl <= 0; no expiry when both are <= 0.
// - Optional periodic cleanup of expired entries.
type TTLMap[V any] struct {
	mu              sync.RWMutex
	data            map[string]ttlEntry[V]
	defaultTTL      time.Duration
	cleanupInterval time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64

	stopOnce sync.Once
	stopCh   chan struct{}
}

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
	hasExpiry bool
}

func (e ttlEntry[V]) expired(now time.Time) bool {
	return e.hasExpiry && !now.Before(e.expiresAt)
}

// Stats is a hit/miss snapshot.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// NewTTLMap creates a TTLMap. A cleanupInterval of 0 runs no background
// goroutine; expired entries are then dropped lazily on access.
func NewTTLMap[V any](defaultTTL, cleanupInterval time.Duration) *TTLMap[V] {
	m := &TTLMap[V]{
		data:            make(map[string]ttlEntry[V]),
		defaultTTL:      defaultTTL,
		cleanupInterval: cleanupInterval,
		stopCh:          make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.cleanupLoop()
	}
	return m
}

// Close stops the background cleanup goroutine, if any.
func (m *TTLMap[V]) Close() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

// Get returns the value for key when present and not expired.
func (m *TTLMap[V]) Get(key string) (V, bool) {
	now := time.Now()

	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()

	if ok && !entry.expired(now) {
		m.hits.Add(1)
		return entry.value, true
	}
	m.misses.Add(1)

	if ok {
		m.mu.Lock()
		if cur, exists := m.data[key]; exists && cur.expired(now) {
			delete(m.data, key)
		}
		m.mu.Unlock()
	}

	var zero V
	return zero, false
}

// Set stores value under key.
func (m *TTLMap[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	entry := ttlEntry[V]{value: value}
	if ttl > 0 {
		entry.hasExpiry = true
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
}

// Delete removes key; missing keys are ignored.
func (m *TTLMap[V]) Delete(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}

// Clear removes every entry.
func (m *TTLMap[V]) Clear() {
	m.mu.Lock()
	m.data = make(map[string]ttlEntry[V])
	m.mu.Unlock()
}

// Cleanup removes expired entries immediately.
func (m *TTLMap[V]) Cleanup() {
	now := time.Now()
	m.mu.Lock()
	for k, v := range m.data {
		if v.expired(now) {
			delete(m.data, k)
		}
	}
	m.mu.Unlock()
}

// Size returns the number of non-expired entries.
func (m *TTLMap[V]) Size() int {
	now := time.Now()
	count := 0
	m.mu.RLock()
	for _, v := range m.data {
		if !v.expired(now) {
			count++
		}
	}
	m.mu.RUnlock()
	return count
}

func (m *TTLMap[V]) Stats() Stats {
	return Stats{Entries: m.Size(), Hits: m.hits.Load(), Misses: m.misses.Load()}
}

func (m *TTLMap[V]) cleanupLoop() {
	t := time.NewTicker(m.cleanupInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			m.Cleanup()
		case <-m.stopCh:
			return
		}
	}
}
