package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sellarte/internal/knowledge"
	id "sellarte/pkg/domain"
	"sellarte/pkg/sentinel"
)

// Postgres persists fragments via a pgx pool. Embeddings live in a float4
// array column; the corpus is small enough that retrieval loads it whole and
// scans in memory. The position column fixes insertion order across restarts.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Upsert(ctx context.Context, fragment knowledge.Fragment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO knowledge_fragments (id, title, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			embedding = excluded.embedding
	`, uuid.UUID(fragment.ID), fragment.Title, fragment.Content, fragment.Embedding, fragment.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert knowledge fragment: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context) ([]knowledge.Fragment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, content, embedding, created_at
		FROM knowledge_fragments
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("list knowledge fragments: %w", err)
	}
	defer rows.Close()

	var fragments []knowledge.Fragment
	for rows.Next() {
		var (
			fragment knowledge.Fragment
			rawID    uuid.UUID
		)
		if err := rows.Scan(&rawID, &fragment.Title, &fragment.Content, &fragment.Embedding, &fragment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan knowledge fragment: %w", err)
		}
		fragment.ID = id.FragmentID(rawID)
		fragments = append(fragments, fragment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knowledge fragments: %w", err)
	}
	return fragments, nil
}

func (s *Postgres) Delete(ctx context.Context, fragmentID id.FragmentID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM knowledge_fragments WHERE id = $1`, uuid.UUID(fragmentID))
	if err != nil {
		return fmt.Errorf("delete knowledge fragment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM knowledge_fragments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count knowledge fragments: %w", err)
	}
	return count, nil
}
