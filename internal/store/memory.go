package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process StateStore. Values are held as encoded JSON
// so callers never share memory with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
}

var _ StateStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]json.RawMessage),
	}
}

// Set implements StateStore.
func (s *MemoryStore) Set(ctx context.Context, namespace, key string, value any) error {
	data, err := Encode(namespace, key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]json.RawMessage)
		s.data[namespace] = ns
	}
	ns[key] = data
	return nil
}

// Get implements StateStore.
func (s *MemoryStore) Get(ctx context.Context, namespace, key string, dest any) error {
	if err := ValidateKey(namespace, key); err != nil {
		return err
	}

	s.mu.RLock()
	data, ok := s.data[namespace][key]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	return Decode(namespace, key, data, dest)
}

// List implements StateStore.
func (s *MemoryStore) List(ctx context.Context, namespace string) (map[string]json.RawMessage, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(s.data[namespace]))
	for k, v := range s.data[namespace] {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out, nil
}
