package session

import (
	"context"
	"sync"
)

// MemoryStore is the single-process fallback backend. Change events are
// fanned out to in-process watchers only.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string][]byte
	watchers map[int]chan Event
	nextID   int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string][]byte),
		watchers: make(map[int]chan Event),
	}
}

// Get returns the stored value or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put stores the value and notifies watchers.
func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.mu.Lock()
	m.records[key] = stored
	m.mu.Unlock()
	m.notify(key)
	return nil
}

// Delete removes the value and notifies watchers. Deleting a missing key is
// not an error.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	_, existed := m.records[key]
	delete(m.records, key)
	m.mu.Unlock()
	if existed {
		m.notify(key)
	}
	return nil
}

// Keys returns a snapshot of all stored keys.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	return keys
}

// Watch registers an in-process watcher that lives until ctx is done.
func (m *MemoryStore) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 16)
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = ch
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (m *MemoryStore) notify(key string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.watchers {
		select {
		case ch <- Event{Key: key}:
		default:
			// Watcher is behind; it re-reads the store anyway.
		}
	}
}
