package models

import (
	"github.com/shopspring/decimal"
)

// AssetType mirrors the asset_type column.
type AssetType string

// Asset represents a row of the assets table.
type Asset struct {
	AssetID        string              `db:"asset_id"`
	UserID         string              `db:"user_id"`
	Name           string              `db:"name"`
	AssetType      AssetType           `db:"asset_type"`
	InitialBalance decimal.Decimal     `db:"initial_balance"`
	Balance        decimal.Decimal     `db:"balance"`
	AlertThreshold decimal.NullDecimal `db:"alert_threshold"` // Nullable
	AuditFields
}
