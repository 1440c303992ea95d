// Package sqlite is an embedded single-file store for local runs. It
// implements the same repository ports as the Postgres adapter, keeping money
// columns as decimal text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open creates the database directory, applies migrations and opens the store.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serialises writers and keeps the pragma below in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Provider exposes the store through the repository ports.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AssetRepo:  s,
		DebtRepo:   s,
		LedgerRepo: s,
		UnitOfWork: s,
	}
}

var (
	_ portsrepo.AssetRepositoryFacade = (*Store)(nil)
	_ portsrepo.DebtRepositoryFacade  = (*Store)(nil)
	_ portsrepo.LedgerReader          = (*Store)(nil)
	_ portsrepo.UnitOfWork            = (*Store)(nil)
)

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

func queryError(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
	}
	return apperrors.NewAppError(500, "failed to query "+kind+" "+id, err)
}

func insertError(err error, kind, id string) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s %s already exists", apperrors.ErrConflict, kind, id)
	}
	return apperrors.NewAppError(500, "failed to save "+kind+" "+id, err)
}

func versionedUpdate(ctx context.Context, tx *sql.Tx, kind, id, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update "+kind+" "+id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewAppError(500, "failed to update "+kind+" "+id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s was modified concurrently", apperrors.ErrConflict, kind, id)
	}
	return nil
}

// Times are stored in UTC so that text comparison orders them.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcNull(n sql.NullTime) sql.NullTime {
	if n.Valid {
		n.Time = n.Time.UTC()
	}
	return n
}
