// Package memory provides an in-memory credential store
package memory

import (
	"context"
	"sync"

	"github.com/nutriplan/client/internal/ports/outbound"
)

// CredentialStore implements outbound.CredentialStore in process memory.
// Values do not survive a restart.
type CredentialStore struct {
	data  map[string]string
	mutex sync.RWMutex
}

// NewCredentialStore creates an empty in-memory store
func NewCredentialStore() outbound.CredentialStore {
	return &CredentialStore{
		data: make(map[string]string),
	}
}

// Get retrieves a value
func (s *CredentialStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	return value, exists, nil
}

// Set stores a value
func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
	return nil
}

// Delete removes a key. Absent keys are not an error.
func (s *CredentialStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}
