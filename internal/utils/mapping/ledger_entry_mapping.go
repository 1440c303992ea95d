package mapping

import (
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:     d.EntryID,
		AssetID:     d.AssetID,
		Kind:        models.EntryKind(d.Kind),
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		DebtID:      toNullString(d.DebtID),
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
		RevertedAt:  toNullTime(d.RevertedAt),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     m.EntryID,
		AssetID:     m.AssetID,
		Kind:        domain.EntryKind(m.Kind),
		Amount:      m.Amount,
		Category:    m.Category,
		Description: m.Description,
		DebtID:      fromNullString(m.DebtID),
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
		RevertedAt:  fromNullTime(m.RevertedAt),
	}
}

// ToDomainLedgerEntrySlice converts model entries to domain entries, keeping order
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
