package cache

import (
	"sync"
	"time"
)

// sweepInterval is how often expired keys are dropped
const sweepInterval = 5 * time.Minute

// MemoryStore is an in-process TTL map backing MemoryLocker
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]entry
	stop  chan struct{}
	once  sync.Once
	now   func() time.Time
}

type entry struct {
	value   string
	expires time.Time
}

func (e entry) live(now time.Time) bool { return now.Before(e.expires) }

// NewMemoryStore creates a store and starts its sweeper
func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		items: make(map[string]entry),
		stop:  make(chan struct{}),
		now:   time.Now,
	}
	go ms.sweep()
	return ms
}

// Set overwrites key unconditionally
func (ms *MemoryStore) Set(key, value string, ttl time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.items[key] = entry{value: value, expires: ms.now().Add(ttl)}
}

// SetNX stores the pair only if key is absent or expired
func (ms *MemoryStore) SetNX(key, value string, ttl time.Duration) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	if e, ok := ms.items[key]; ok && e.live(now) {
		return false
	}
	ms.items[key] = entry{value: value, expires: now.Add(ttl)}
	return true
}

// Get returns the live value for key
func (ms *MemoryStore) Get(key string) (string, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e, ok := ms.items[key]
	if !ok || !e.live(ms.now()) {
		return "", false
	}
	return e.value, true
}

// CompareAndDelete removes key only while it still holds value
func (ms *MemoryStore) CompareAndDelete(key, value string) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e, ok := ms.items[key]
	if !ok || e.value != value {
		return false
	}
	delete(ms.items, key)
	return true
}

// Close stops the sweeper
func (ms *MemoryStore) Close() {
	ms.once.Do(func() { close(ms.stop) })
}

func (ms *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := ms.now()
			for key, e := range ms.items {
				if !e.live(now) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
