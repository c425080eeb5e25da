package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkoval/citehound/internal/model"
)

// PostgresStore persists records in a Postgres table. Staged mutations are
// applied inside a single transaction at Commit.
type PostgresStore struct {
	mu     sync.Mutex
	db     *pgxpool.Pool
	staged []stagedOp
}

// NewPostgresStore connects to the database and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS citation_records (
			seq BIGSERIAL PRIMARY KEY,
			id UUID NOT NULL UNIQUE,
			original_text TEXT NOT NULL,
			normalized_citation TEXT NOT NULL DEFAULT '',
			case_name TEXT NOT NULL DEFAULT '',
			citation_status TEXT NOT NULL,
			case_name_status TEXT NOT NULL,
			case_identifier TEXT NOT NULL DEFAULT '',
			external_url TEXT NOT NULL DEFAULT '',
			opinion_text TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Insert stages a record.
func (s *PostgresStore) Insert(ctx context.Context, record *model.CitationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, stagedOp{kind: opInsert, record: record})
	return nil
}

// Delete stages removal of a record.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, stagedOp{kind: opDelete, id: id})
	return nil
}

// List returns committed records in insertion order.
func (s *PostgresStore) List(ctx context.Context) ([]*model.CitationRecord, error) {
	query := `
		SELECT id, original_text, normalized_citation, case_name,
		       citation_status, case_name_status, case_identifier,
		       external_url, opinion_text, notes, created_at
		FROM citation_records
		ORDER BY seq`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*model.CitationRecord
	for rows.Next() {
		record := &model.CitationRecord{}
		err := rows.Scan(
			&record.ID,
			&record.OriginalText,
			&record.NormalizedCitation,
			&record.CaseName,
			&record.CitationStatus,
			&record.CaseNameStatus,
			&record.CaseIdentifier,
			&record.ExternalURL,
			&record.OpinionText,
			&record.Notes,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Commit applies all staged mutations in one transaction.
func (s *PostgresStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	ops := s.staged
	s.mu.Unlock()

	if len(ops) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, op := range ops {
		switch op.kind {
		case opInsert:
			query := `
				INSERT INTO citation_records (
					id, original_text, normalized_citation, case_name,
					citation_status, case_name_status, case_identifier,
					external_url, opinion_text, notes, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

			_, err = tx.Exec(ctx, query,
				op.record.ID,
				op.record.OriginalText,
				op.record.NormalizedCitation,
				op.record.CaseName,
				op.record.CitationStatus,
				op.record.CaseNameStatus,
				op.record.CaseIdentifier,
				op.record.ExternalURL,
				op.record.OpinionText,
				op.record.Notes,
				op.record.Timestamp,
			)
		case opDelete:
			_, err = tx.Exec(ctx, `DELETE FROM citation_records WHERE id = $1`, op.id)
		}
		if err != nil {
			return fmt.Errorf("apply staged op: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.mu.Lock()
	s.staged = nil
	s.mu.Unlock()
	return nil
}

// DeleteAll removes every record and commits immediately.
func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	s.staged = nil
	s.mu.Unlock()

	if _, err := s.db.Exec(ctx, `DELETE FROM citation_records`); err != nil {
		return fmt.Errorf("delete all records: %w", err)
	}
	return nil
}
