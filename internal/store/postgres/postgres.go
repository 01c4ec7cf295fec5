package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"mobilepos/internal/store"
)

const schema = `
	CREATE TABLE IF NOT EXISTS ledger_documents (
		key        TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		version    BIGINT NOT NULL DEFAULT 1,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// Store keeps the ledger document as a single JSONB row.
type Store struct {
	db  *sql.DB
	key string
}

func New(ctx context.Context, databaseURL string, key string) (*Store, error) {
	if key == "" {
		return nil, fmt.Errorf("document key is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{db: db, key: key}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT body
		FROM ledger_documents
		WHERE key = $1
	`, s.key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return body, nil
}

func (s *Store) Save(ctx context.Context, document []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_documents (key, body, version, updated_at)
		VALUES ($1, $2::jsonb, 1, now())
		ON CONFLICT (key)
		DO UPDATE SET body = EXCLUDED.body, version = ledger_documents.version + 1, updated_at = now()
	`, s.key, string(document))
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("document rejected: %w", err)
		}
		return err
	}
	return nil
}

// Version returns how many times the document has been written.
func (s *Store) Version(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `
		SELECT version
		FROM ledger_documents
		WHERE key = $1
	`, s.key).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrNotFound
		}
		return 0, err
	}
	return version, nil
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514" || pgErr.Code == "22P02"
	}
	return false
}
