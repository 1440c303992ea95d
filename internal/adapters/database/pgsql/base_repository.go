package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction. Rolling back a committed transaction is a no-op.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// queryError maps a single-row lookup failure to the error the services expect.
func queryError(err error, kind, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
	}
	return apperrors.NewAppError(500, "failed to query "+kind+" "+id, err)
}

// insertError maps an INSERT failure, turning unique violations into conflicts.
func insertError(err error, kind, id string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s %s already exists", apperrors.ErrConflict, kind, id)
	}
	return apperrors.NewAppError(500, "failed to save "+kind+" "+id, err)
}

// versionedUpdate runs an UPDATE guarded by "version = expected". Zero rows
// affected means another writer got there first.
func versionedUpdate(ctx context.Context, tx pgx.Tx, kind, id string, query string, args ...any) error {
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update "+kind+" "+id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s was modified concurrently", apperrors.ErrConflict, kind, id)
	}
	return nil
}
