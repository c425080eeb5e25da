package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/mkoval/citehound/internal/model"
)

// DiskStore persists records to a single JSON file. Commits write the whole
// state to a temp file and rename it into place, so a crashed commit never
// leaves a half-written record set behind.
type DiskStore struct {
	mu     sync.Mutex
	path   string
	staged []stagedOp
}

// NewDiskStore creates a store backed by the JSON file at path.
func NewDiskStore(path string) *DiskStore {
	return &DiskStore{path: path}
}

// Insert stages a record.
func (s *DiskStore) Insert(ctx context.Context, record *model.CitationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, stagedOp{kind: opInsert, record: record})
	return nil
}

// Delete stages removal of a record.
func (s *DiskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, stagedOp{kind: opDelete, id: id})
	return nil
}

// List returns committed records in insertion order.
func (s *DiskStore) List(ctx context.Context) ([]*model.CitationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Commit applies staged mutations and writes the file atomically.
func (s *DiskStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	committed, err := s.load()
	if err != nil {
		return err
	}
	if err := s.write(applyOps(committed, s.staged)); err != nil {
		return err
	}
	s.staged = nil
	return nil
}

// DeleteAll removes every record and commits immediately.
func (s *DiskStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = nil
	return s.write(nil)
}

// load reads the committed state. A missing file is an empty store.
func (s *DiskStore) load() ([]*model.CitationRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read records file: %w", err)
	}

	var records []*model.CitationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records file: %w", err)
	}
	return records, nil
}

// write replaces the committed state via temp file + rename.
func (s *DiskStore) write(records []*model.CitationRecord) error {
	if records == nil {
		records = []*model.CitationRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".records-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace records file: %w", err)
	}
	return nil
}
