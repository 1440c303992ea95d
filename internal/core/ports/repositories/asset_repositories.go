package repositories

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// AssetReader defines read operations for asset data
type AssetReader interface {
	// FindAssetByID retrieves an asset by its unique identifier.
	// Returns apperrors.ErrNotFound when it does not exist.
	FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)

	// ListAssetsByUser retrieves every asset owned by userID ordered by name.
	ListAssetsByUser(ctx context.Context, userID string) ([]domain.Asset, error)
}

// AssetWriter defines write operations for asset data.
// Balance changes never go through here; see UnitOfWork.
type AssetWriter interface {
	// SaveAsset persists a new asset.
	SaveAsset(ctx context.Context, asset domain.Asset) error
}

// AssetRepositoryFacade combines all asset-related repository interfaces
type AssetRepositoryFacade interface {
	AssetReader
	AssetWriter
}
