// Package token holds the caller-supplied API credential. The credential is
// single-valued: it is replaced wholesale, never partially mutated, so
// concurrent reads during a verification pass are always safe.
package token

import "sync"

// Store is the secure token store contract consumed by the verification
// client. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored credential and whether one is set.
	Get() (string, bool)
	// Set replaces the stored credential.
	Set(credential string) error
	// Clear removes the stored credential.
	Clear() error
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	credential string
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored credential.
func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != ""
}

// Set replaces the stored credential.
func (s *MemoryStore) Set(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	return nil
}

// Clear removes the stored credential.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	return nil
}
