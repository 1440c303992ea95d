package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

func (s *Store) CommitEntry(ctx context.Context, asset domain.Asset, entry domain.LedgerEntry) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := updateAssetTx(ctx, tx, asset); err != nil {
			return err
		}
		return insertEntryTx(ctx, tx, entry)
	})
}

func (s *Store) CommitRevert(ctx context.Context, asset domain.Asset, entryID string, at time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := tombstoneEntryTx(ctx, tx, entryID, at); err != nil {
			return err
		}
		return updateAssetTx(ctx, tx, asset)
	})
}

func (s *Store) CommitPayment(ctx context.Context, result domain.PaymentResult) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := updateDebtTx(ctx, tx, result.Debt); err != nil {
			return err
		}
		if err := insertEntryTx(ctx, tx, result.Entry); err != nil {
			return err
		}
		return updateAssetTx(ctx, tx, result.Asset)
	})
}
