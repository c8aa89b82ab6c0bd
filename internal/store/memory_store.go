package store

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// MemoryStore is an in-memory ArtifactStore. It enumerates identifiers in
// insertion order and counts calls, which makes it convenient in tests.
type MemoryStore struct {
	name   string
	family Family

	mu      sync.RWMutex
	order   []identifier.ResourceIdentifier
	objects map[identifier.ResourceIdentifier][]byte
	calls   MemoryCalls

	// GetHook, when set, runs before every Get and can inject failures.
	GetHook func(id identifier.ResourceIdentifier) error
}

// MemoryCalls tracks method invocations for test verification.
type MemoryCalls struct {
	List int
	Get  int
	Put  int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(name string, family Family) *MemoryStore {
	return &MemoryStore{
		name:    name,
		family:  family,
		objects: make(map[identifier.ResourceIdentifier][]byte),
	}
}

// Name implements ArtifactStore.
func (m *MemoryStore) Name() string { return m.name }

// Family implements ArtifactStore.
func (m *MemoryStore) Family() Family { return m.family }

// List implements ArtifactStore.
func (m *MemoryStore) List(ctx context.Context) ([]identifier.ResourceIdentifier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.List++

	out := make([]identifier.ResourceIdentifier, len(m.order))
	copy(out, m.order)
	return out, nil
}

// Get implements ArtifactStore.
func (m *MemoryStore) Get(ctx context.Context, id identifier.ResourceIdentifier) ([]byte, error) {
	if err := checkFamily(m.name, m.family, id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.calls.Get++
	hook := m.GetHook
	data, ok := m.objects[id]
	m.mu.Unlock()

	if hook != nil {
		if err := hook(id); err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, notFound(m.name, id)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put implements ArtifactStore.
func (m *MemoryStore) Put(ctx context.Context, id identifier.ResourceIdentifier, data []byte) error {
	if err := checkFamily(m.name, m.family, id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Put++

	if _, exists := m.objects[id]; !exists {
		m.order = append(m.order, id)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[id] = stored
	return nil
}

// Calls returns a snapshot of call counters.
func (m *MemoryStore) Calls() MemoryCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Close releases resources.
func (m *MemoryStore) Close() error { return nil }
