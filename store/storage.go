package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"jejubot/types"
)

// pgUndefinedTable is returned when the collection has not been created yet.
const pgUndefinedTable = "42P01"

type VectorStorer interface {
	ResetCollection(ctx context.Context, name string, dim int) error
	UpsertBatch(ctx context.Context, name string, docs []types.IndexedDocument) error
	QueryNearest(ctx context.Context, name string, embedding []float32, k int) ([]types.SearchHit, error)
	Count(ctx context.Context, name string) (int, error)
}

// PostgresStore keeps indexed documents in pgvector tables, one table per
// named collection. The index is the sole durable store of document,
// metadata and embedding state.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

// ResetCollection drops and recreates the named collection. It is used
// before a full reingestion run and tolerates the collection not existing.
func (p *PostgresStore) ResetCollection(ctx context.Context, name string, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", dim)
	}
	table := pgx.Identifier{name}.Sanitize()

	query := fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	DROP TABLE IF EXISTS %s;

	CREATE TABLE %s (
		id TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}',
		embedding vector(%d)
	);

	CREATE INDEX ON %s USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);
	`, table, table, dim, table)

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to reset collection %s: %w", name, err)
	}
	slog.Info("[STORE] collection reset", "collection", name, "dim", dim)
	return nil
}

// UpsertBatch writes one batch of documents in a single transaction.
// A failed batch affects only that batch.
func (p *PostgresStore) UpsertBatch(ctx context.Context, name string, docs []types.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}
	table := pgx.Identifier{name}.Sanitize()

	query := fmt.Sprintf(`
	INSERT INTO %s (id, document, metadata, embedding)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
		document = EXCLUDED.document,
		metadata = EXCLUDED.metadata,
		embedding = EXCLUDED.embedding
	`, table)

	batch := &pgx.Batch{}
	for _, doc := range docs {
		meta, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", doc.ID, err)
		}
		batch.Queue(query, doc.ID, doc.Document, meta, pgvector.NewVector(doc.Embedding))
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("batch upsert into %s failed: %w", name, err)
	}
	return tx.Commit(ctx)
}

// QueryNearest returns up to k nearest documents by cosine distance,
// ascending. A missing collection yields an empty result, not an error.
func (p *PostgresStore) QueryNearest(ctx context.Context, name string, embedding []float32, k int) ([]types.SearchHit, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("empty query embedding")
	}
	if k <= 0 {
		k = 3
	}
	table := pgx.Identifier{name}.Sanitize()

	query := fmt.Sprintf(`
	SELECT id, document, metadata, embedding <=> $1 AS distance
	FROM %s
	WHERE embedding IS NOT NULL
	ORDER BY embedding <=> $1
	LIMIT $2
	`, table)

	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(embedding), k)
	if err != nil {
		if isUndefinedTable(err) {
			log.Printf("[STORE] collection %s does not exist, returning no results", name)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", types.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	var hits []types.SearchHit
	for rows.Next() {
		var hit types.SearchHit
		var meta []byte
		if err := rows.Scan(&hit.ID, &hit.Document, &meta, &hit.Distance); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &hit.Metadata); err != nil {
			return nil, fmt.Errorf("bad metadata for %s: %w", hit.ID, err)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Count reports how many documents the collection holds.
func (p *PostgresStore) Count(ctx context.Context, name string) (int, error) {
	table := pgx.Identifier{name}.Sanitize()
	var count int
	err := p.pool.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&count)
	if err != nil {
		if isUndefinedTable(err) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool.
func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
