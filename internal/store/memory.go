package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mkoval/citehound/internal/model"
)

type opKind int

const (
	opInsert opKind = iota
	opDelete
)

type stagedOp struct {
	kind   opKind
	record *model.CitationRecord
	id     uuid.UUID
}

// MemoryStore keeps records in process memory. It implements the same
// staged-commit semantics as the durable stores and backs tests.
type MemoryStore struct {
	mu        sync.Mutex
	committed []*model.CitationRecord
	staged    []stagedOp
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert stages a record.
func (s *MemoryStore) Insert(ctx context.Context, record *model.CitationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, stagedOp{kind: opInsert, record: record})
	return nil
}

// Delete stages removal of a record.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, stagedOp{kind: opDelete, id: id})
	return nil
}

// List returns committed records in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]*model.CitationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.CitationRecord, len(s.committed))
	copy(out, s.committed)
	return out, nil
}

// Commit applies all staged mutations.
func (s *MemoryStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.committed = applyOps(s.committed, s.staged)
	s.staged = nil
	return nil
}

// DeleteAll removes everything and commits immediately.
func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.committed = nil
	s.staged = nil
	return nil
}

// applyOps folds staged operations into a committed record list, preserving
// insertion order.
func applyOps(committed []*model.CitationRecord, ops []stagedOp) []*model.CitationRecord {
	out := committed
	for _, op := range ops {
		switch op.kind {
		case opInsert:
			out = append(out, op.record)
		case opDelete:
			filtered := out[:0:0]
			for _, r := range out {
				if r.ID != op.id {
					filtered = append(filtered, r)
				}
			}
			out = filtered
		}
	}
	return out
}
