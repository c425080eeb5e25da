// Package store persists citation records. Mutations are staged and become
// visible to List atomically at Commit, the pass's durability boundary: a
// failed commit means none of the pass's results are durable.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkoval/citehound/internal/model"
)

// Store is the citation store contract. Implementations are safe for
// concurrent use: batch processing runs many passes against one shared
// instance, so staging and commits from different goroutines must never
// lose records. Two instances over the same backing file are NOT safe
// against each other; callers share the instance, not the path.
type Store interface {
	// Insert stages a record for the next commit.
	Insert(ctx context.Context, record *model.CitationRecord) error
	// Delete stages removal of a record by id.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns committed records in insertion order. Staged mutations
	// are not visible.
	List(ctx context.Context) ([]*model.CitationRecord, error)
	// Commit makes all staged mutations durable atomically.
	Commit(ctx context.Context) error
	// DeleteAll removes every record and commits immediately.
	DeleteAll(ctx context.Context) error
}
