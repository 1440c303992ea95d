package services

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/dto"
)

// AssetSvc defines asset lifecycle operations
type AssetSvc interface {
	// CreateAsset registers a new asset whose balance starts at its initial balance.
	CreateAsset(ctx context.Context, req dto.CreateAssetRequest, userID string) (*domain.Asset, error)

	// GetAsset retrieves an asset owned by userID.
	GetAsset(ctx context.Context, assetID string, userID string) (*domain.Asset, error)

	// ListAssets retrieves every asset owned by userID.
	ListAssets(ctx context.Context, userID string) ([]domain.Asset, error)
}

// LedgerEntrySvc defines the balance-changing ledger operations
type LedgerEntrySvc interface {
	// RecordEntry books an income or expense on an asset and returns the
	// entry together with the updated asset.
	RecordEntry(ctx context.Context, assetID string, req dto.RecordEntryRequest, userID string) (*domain.LedgerEntry, *domain.Asset, error)

	// DeleteEntry reverts an entry exactly once and returns the updated asset.
	DeleteEntry(ctx context.Context, entryID string, userID string) (*domain.Asset, error)

	// VerifyAssetBalance recomputes the asset balance from its entries.
	VerifyAssetBalance(ctx context.Context, assetID string, userID string) (*domain.BalanceCheck, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	AssetSvc
	LedgerEntrySvc
}
