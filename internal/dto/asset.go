package dto

import (
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAssetRequest defines the data needed to create a new asset.
// InitialBalance may be negative, e.g. a credit card already in use.
type CreateAssetRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	Type           domain.AssetType `json:"type" binding:"required,oneof=cash bank_account credit_card investment savings other"`
	InitialBalance decimal.Decimal  `json:"initialBalance"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold" binding:"omitempty,dgte0"`
}

// AssetResponse defines the data returned for an asset.
type AssetResponse struct {
	AssetID        string           `json:"assetID"`
	Name           string           `json:"name"`
	Type           domain.AssetType `json:"type"`
	InitialBalance decimal.Decimal  `json:"initialBalance"`
	Balance        decimal.Decimal  `json:"balance"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold,omitempty"`
	BelowThreshold bool             `json:"belowThreshold"`
	CreatedAt      time.Time        `json:"createdAt"`
	CreatedBy      string           `json:"createdBy"`
	LastUpdatedAt  time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy  string           `json:"lastUpdatedBy"`
	Version        int64            `json:"version"`
}

// ToAssetResponse converts a domain.Asset to AssetResponse DTO
func ToAssetResponse(a *domain.Asset) AssetResponse {
	return AssetResponse{
		AssetID:        a.AssetID,
		Name:           a.Name,
		Type:           a.Type,
		InitialBalance: a.InitialBalance,
		Balance:        a.Balance,
		AlertThreshold: a.AlertThreshold,
		BelowThreshold: a.BelowThreshold(),
		CreatedAt:      a.CreatedAt,
		CreatedBy:      a.CreatedBy,
		LastUpdatedAt:  a.LastUpdatedAt,
		LastUpdatedBy:  a.LastUpdatedBy,
		Version:        a.Version,
	}
}

// ToListAssetResponse converts a slice of domain.Asset to a slice of AssetResponse DTOs
func ToListAssetResponse(assets []domain.Asset) []AssetResponse {
	res := make([]AssetResponse, len(assets))
	for i := range assets {
		res[i] = ToAssetResponse(&assets[i])
	}
	return res
}
