package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind tells whether a ledger entry adds to or takes from an asset.
type EntryKind string

const (
	Income  EntryKind = "income"
	Expense EntryKind = "expense"
)

// IsValid reports whether k is income or expense.
func (k EntryKind) IsValid() bool {
	return k == Income || k == Expense
}

// CategoryDebtPayment tags entries created by debt payments.
const CategoryDebtPayment = "debt_payment"

// LedgerEntry is a single income or expense movement against one asset.
// Entries are immutable; deleting one sets RevertedAt exactly once.
type LedgerEntry struct {
	EntryID     string          `json:"entryID"`
	Kind        EntryKind       `json:"kind"`
	Amount      decimal.Decimal `json:"amount"` // Always positive
	AssetID     string          `json:"assetID"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	DebtID      *string         `json:"debtID,omitempty"` // Set when created by a debt payment
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
	RevertedAt  *time.Time      `json:"revertedAt,omitempty"`
}

// IsReverted reports whether the entry has been deleted.
func (e LedgerEntry) IsReverted() bool {
	return e.RevertedAt != nil
}

// SignedAmount is the entry's effect on its asset balance.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind == Expense {
		return e.Amount.Neg()
	}
	return e.Amount
}
