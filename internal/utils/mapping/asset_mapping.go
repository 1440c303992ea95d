package mapping

import (
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelAsset converts a domain Asset to a model Asset
func ToModelAsset(d domain.Asset) models.Asset {
	m := models.Asset{
		AssetID:        d.AssetID,
		UserID:         d.UserID,
		Name:           d.Name,
		AssetType:      models.AssetType(d.Type),
		InitialBalance: d.InitialBalance,
		Balance:        d.Balance,
		AuditFields:    toModelAudit(d.AuditFields),
	}
	if d.AlertThreshold != nil {
		m.AlertThreshold = decimal.NullDecimal{Decimal: *d.AlertThreshold, Valid: true}
	}
	return m
}

// ToDomainAsset converts a model Asset to a domain Asset
func ToDomainAsset(m models.Asset) domain.Asset {
	d := domain.Asset{
		AssetID:        m.AssetID,
		UserID:         m.UserID,
		Name:           m.Name,
		Type:           domain.AssetType(m.AssetType),
		InitialBalance: m.InitialBalance,
		Balance:        m.Balance,
		AuditFields:    toDomainAudit(m.AuditFields),
	}
	if m.AlertThreshold.Valid {
		threshold := m.AlertThreshold.Decimal
		d.AlertThreshold = &threshold
	}
	return d
}

// ToDomainAssetSlice converts a slice of model Assets to a slice of domain Assets
func ToDomainAssetSlice(ms []models.Asset) []domain.Asset {
	ds := make([]domain.Asset, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAsset(m)
	}
	return ds
}
