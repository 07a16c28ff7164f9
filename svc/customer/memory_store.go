package customer

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore keeps user documents in process memory. Documents are plain
// field maps so merge semantics match the document database.
type MemoryStore struct {
	mu    sync.RWMutex
	field string
	docs  map[string]map[string]any
}

func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{
		field: cfg.withDefaults().Field,
		docs:  make(map[string]map[string]any),
	}
}

// Put replaces the user's document.
func (s *MemoryStore) Put(userID string, doc map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[userID] = maps.Clone(doc)
}

// Document returns a copy of the user's document.
func (s *MemoryStore) Document(userID string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[userID]
	return maps.Clone(doc), ok
}

func (s *MemoryStore) CustomerID(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, _ := s.docs[userID][s.field].(string)
	return id, nil
}

func (s *MemoryStore) SetCustomerIDIfAbsent(_ context.Context, userID, customerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[userID]
	if !ok {
		doc = make(map[string]any)
		s.docs[userID] = doc
	}
	if existing, _ := doc[s.field].(string); existing != "" {
		return existing, nil
	}
	doc[s.field] = customerID
	return customerID, nil
}
