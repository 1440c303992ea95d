package repositories

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries.
// Entries are only written through UnitOfWork.
type LedgerReader interface {
	// FindEntryByID retrieves an entry, reverted or not.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntriesByAsset retrieves every entry booked on assetID, including
	// reverted ones, oldest first.
	ListEntriesByAsset(ctx context.Context, assetID string) ([]domain.LedgerEntry, error)
}
