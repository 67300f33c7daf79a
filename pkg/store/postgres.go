package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xhad/cdpask/internal/models"
	"github.com/xhad/cdpask/internal/types"
)

var ErrNotFound = errors.New("document not found")

var _ types.DocumentStore = (*PostgresStore)(nil)

// pool is the subset of *pgxpool.Pool the store uses.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type PostgresConfig struct {
	ConnString string
	TableName  string
}

type PostgresStore struct {
	config PostgresConfig
	pool   pool
}

// NewPostgres connects to the database and makes sure the documents table
// exists.
func NewPostgres(ctx context.Context, config PostgresConfig) (*PostgresStore, error) {
	p, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ps, err := newPostgres(ctx, p, config)
	if err != nil {
		p.Close()
		return nil, err
	}
	return ps, nil
}

func newPostgres(ctx context.Context, p pool, config PostgresConfig) (*PostgresStore, error) {
	if config.TableName == "" {
		config.TableName = "cdp_docs"
	}

	ps := &PostgresStore{config: config, pool: p}

	if err := p.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if err := ps.initialize(ctx); err != nil {
		return nil, err
	}
	return ps, nil
}

func (ps *PostgresStore) initialize(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			platform TEXT PRIMARY KEY,
			content TEXT NOT NULL
		)`, ps.config.TableName)

	if _, err := ps.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (ps *PostgresStore) upsertSQL() string {
	return fmt.Sprintf(`
		INSERT INTO %s (platform, content)
		VALUES ($1, $2)
		ON CONFLICT (platform) DO UPDATE SET
			content = EXCLUDED.content`,
		ps.config.TableName)
}

// Upsert inserts doc or replaces the content of the existing row for its
// platform.
func (ps *PostgresStore) Upsert(ctx context.Context, doc models.PlatformDoc) error {
	_, err := ps.pool.Exec(ctx, ps.upsertSQL(), string(doc.Platform), sanitizeUTF8(doc.Content))
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", doc.Platform, err)
	}
	return nil
}

// UpsertAll upserts docs in a single transaction.
func (ps *PostgresStore) UpsertAll(ctx context.Context, docs []models.PlatformDoc) error {
	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := ps.upsertSQL()
	for _, doc := range docs {
		if _, err := tx.Exec(ctx, stmt, string(doc.Platform), sanitizeUTF8(doc.Content)); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", doc.Platform, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Get(ctx context.Context, platform models.Platform) (models.PlatformDoc, error) {
	query := fmt.Sprintf(`SELECT platform, content FROM %s WHERE platform = $1`, ps.config.TableName)

	var doc models.PlatformDoc
	var p string
	err := ps.pool.QueryRow(ctx, query, string(platform)).Scan(&p, &doc.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PlatformDoc{}, ErrNotFound
	}
	if err != nil {
		return models.PlatformDoc{}, fmt.Errorf("failed to get %s: %w", platform, err)
	}
	doc.Platform = models.Platform(p)
	return doc, nil
}

func (ps *PostgresStore) List(ctx context.Context) ([]models.PlatformDoc, error) {
	query := fmt.Sprintf(`SELECT platform, content FROM %s ORDER BY platform`, ps.config.TableName)

	rows, err := ps.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.PlatformDoc
	for rows.Next() {
		var doc models.PlatformDoc
		var p string
		if err := rows.Scan(&p, &doc.Content); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		doc.Platform = models.Platform(p)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (ps *PostgresStore) Close() {
	if ps.pool != nil {
		ps.pool.Close()
	}
}
