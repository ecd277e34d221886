package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig mirrors the pool knobs we expose for server deployments.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// PostgresStore keeps chunks in Postgres with pgvector, using the cosine
// distance operator for nearest-neighbor queries.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS chunks (
	id        TEXT PRIMARY KEY,
	text      TEXT NOT NULL,
	embedding VECTOR NOT NULL,
	metadata  JSONB NOT NULL
);`

// OpenPostgres creates a pgx pool and ensures the chunks table exists. The
// pgvector extension must already be installed in the target database.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "nordicsecure"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Info("store.postgres.open")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Add(ctx context.Context, chunks []Chunk) error {
	for _, c := range chunks {
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO chunks (id, text, embedding, metadata)
			 VALUES ($1, $2, $3::vector, $4)
			 ON CONFLICT (id) DO UPDATE
			 SET text = EXCLUDED.text, embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata`,
			c.ID, c.Text, vectorLiteral(c.Embedding), meta); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}
	s.logger.Debug("store.postgres.add", "chunks", len(chunks))
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, embedding []float32, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, text, metadata, embedding <=> $1::vector AS distance
		 FROM chunks
		 ORDER BY embedding <=> $1::vector
		 LIMIT $2`,
		vectorLiteral(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			hit  Hit
			meta []byte
		)
		if err := rows.Scan(&hit.ID, &hit.Text, &meta, &hit.Distance); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &hit.Metadata); err != nil {
			hit.Metadata = map[string]any{}
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// vectorLiteral renders the pgvector input syntax: [1,2,3].
func vectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = fmt.Sprintf("%g", f)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
