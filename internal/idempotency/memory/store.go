package memory

import (
	"context"
	"sync"

	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

// Store keeps order-placement responses in process memory, keyed by Idempotency-Key.
type Store struct {
	mu        sync.RWMutex
	responses map[string]ports.StoredResponse
}

func NewStore() *Store {
	return &Store{responses: make(map[string]ports.StoredResponse)}
}

// Get returns nil, nil when the key has not been seen.
func (s *Store) Get(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp, ok := s.responses[key]
	if !ok {
		return nil, nil
	}
	resp.Body = append([]byte(nil), resp.Body...)
	return &resp, nil
}

// Save records the first response for a key. Later saves for the same key are ignored.
func (s *Store) Save(_ context.Context, key string, response ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.responses[key]; exists {
		return nil
	}
	response.Body = append([]byte(nil), response.Body...)
	s.responses[key] = response
	return nil
}
