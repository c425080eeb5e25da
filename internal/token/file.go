package token

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists the credential to a file readable only by the owner.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a token store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the credential from disk.
func (s *FileStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	credential := strings.TrimSpace(string(data))
	return credential, credential != ""
}

// Set writes the credential to disk with owner-only permissions.
func (s *FileStore) Set(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(credential), 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the credential file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
