package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUnitOfWork commits each ledger mutation in a single database transaction.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) portsrepo.UnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// CommitEntry appends entry and writes the asset's new balance.
func (u *PgxUnitOfWork) CommitEntry(ctx context.Context, asset domain.Asset, entry domain.LedgerEntry) error {
	return u.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateAssetTx(ctx, tx, asset); err != nil {
			return err
		}
		return insertEntryTx(ctx, tx, entry)
	})
}

// CommitRevert tombstones the entry and writes the asset's restored balance.
func (u *PgxUnitOfWork) CommitRevert(ctx context.Context, asset domain.Asset, entryID string, at time.Time) error {
	return u.inTx(ctx, func(tx pgx.Tx) error {
		if err := tombstoneEntryTx(ctx, tx, entryID, at); err != nil {
			return err
		}
		return updateAssetTx(ctx, tx, asset)
	})
}

// CommitPayment writes the debt, the payment entry and the funding asset together.
func (u *PgxUnitOfWork) CommitPayment(ctx context.Context, result domain.PaymentResult) error {
	return u.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateDebtTx(ctx, tx, result.Debt); err != nil {
			return err
		}
		if err := insertEntryTx(ctx, tx, result.Entry); err != nil {
			return err
		}
		return updateAssetTx(ctx, tx, result.Asset)
	})
}

func (u *PgxUnitOfWork) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if the transaction is committed successfully
	defer u.Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}
