package dto

import (
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordEntryRequest defines an income or expense to book on an asset.
type RecordEntryRequest struct {
	Kind        domain.EntryKind `json:"kind" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal  `json:"amount" binding:"dgt0"`
	Category    string           `json:"category" binding:"max=50"`
	Description string           `json:"description" binding:"max=255"`
}

// EntryResponse defines the data returned for a ledger entry.
type EntryResponse struct {
	EntryID     string           `json:"entryID"`
	Kind        domain.EntryKind `json:"kind"`
	Amount      decimal.Decimal  `json:"amount"`
	AssetID     string           `json:"assetID"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	DebtID      *string          `json:"debtID,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	CreatedBy   string           `json:"createdBy"`
	RevertedAt  *time.Time       `json:"revertedAt,omitempty"`
}

// RecordEntryResponse is returned after booking an entry: the entry and the
// asset as it stands afterwards.
type RecordEntryResponse struct {
	Entry EntryResponse `json:"entry"`
	Asset AssetResponse `json:"asset"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:     e.EntryID,
		Kind:        e.Kind,
		Amount:      e.Amount,
		AssetID:     e.AssetID,
		Category:    e.Category,
		Description: e.Description,
		DebtID:      e.DebtID,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
		RevertedAt:  e.RevertedAt,
	}
}
