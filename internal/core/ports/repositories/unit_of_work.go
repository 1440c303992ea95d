package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// UnitOfWork commits the multi-record changes produced by the core atomically.
//
// Every asset and debt passed in carries the Version it was read at. The store
// writes it only if the stored version still matches and bumps it, otherwise
// it returns apperrors.ErrConflict and nothing is written.
type UnitOfWork interface {
	// CommitEntry inserts entry and stores the updated asset balance.
	CommitEntry(ctx context.Context, asset domain.Asset, entry domain.LedgerEntry) error

	// CommitRevert tombstones entryID at the given time and stores the
	// reverted asset balance. An entry already tombstoned yields
	// apperrors.ErrDoubleRevert.
	CommitRevert(ctx context.Context, asset domain.Asset, entryID string, at time.Time) error

	// CommitPayment stores the debt, inserts the payment entry and stores the
	// funding asset.
	CommitPayment(ctx context.Context, result domain.PaymentResult) error
}
