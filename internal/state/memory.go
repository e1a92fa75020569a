// internal/state/memory.go
package state

import (
	"context"
	"sync"

	"github.com/user/tddguard/internal/types"
)

// MemoryStore keeps slots in a map. It lives only as long as the process.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[types.Slot]string
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[types.Slot]string)}
}

func (m *MemoryStore) Save(_ context.Context, slot types.Slot, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[slot] = content
	return nil
}

func (m *MemoryStore) Get(_ context.Context, slot types.Slot) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.slots[slot]
	return content, ok, nil
}

func (m *MemoryStore) ClearTransient(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, slot := range types.TransientSlots {
		delete(m.slots, slot)
	}
	return nil
}

func (m *MemoryStore) Update(_ context.Context, slot types.Slot, fn func(current string, ok bool) (string, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.slots[slot]
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	m.slots[slot] = next
	return nil
}
