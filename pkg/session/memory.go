package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-formdialog/pkg/widgets"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[Key]any
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[Key]any)}
}

// Load returns the stored object. widgets.Values objects are cloned so callers
// never mutate the stored copy outside Save.
func (s *MemoryStore) Load(_ context.Context, sessionID, dialogType string) (any, bool, error) {
	key := newKey(sessionID, dialogType)
	if !key.valid() {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	object, ok := s.objects[key]
	if !ok {
		return nil, false, nil
	}
	return cloneObject(object), true, nil
}

// Save stores object, replacing any previous one for the pair.
func (s *MemoryStore) Save(_ context.Context, sessionID, dialogType string, object any) error {
	key := newKey(sessionID, dialogType)
	if !key.valid() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = cloneObject(object)
	return nil
}

// Clear removes the object for the pair.
func (s *MemoryStore) Clear(_ context.Context, sessionID, dialogType string) error {
	key := newKey(sessionID, dialogType)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func cloneObject(object any) any {
	switch typed := object.(type) {
	case widgets.Values:
		return typed.Clone()
	case *widgets.Values:
		if typed == nil {
			return typed
		}
		cloned := typed.Clone()
		return &cloned
	default:
		return object
	}
}
