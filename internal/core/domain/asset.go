package domain

import (
	"github.com/shopspring/decimal"
)

// AssetType classifies where money is held.
type AssetType string

const (
	AssetCash        AssetType = "cash"
	AssetBankAccount AssetType = "bank_account"
	AssetCreditCard  AssetType = "credit_card"
	AssetInvestment  AssetType = "investment"
	AssetSavings     AssetType = "savings"
	AssetOther       AssetType = "other"
)

// IsValid reports whether t is one of the known asset types.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetCash, AssetBankAccount, AssetCreditCard, AssetInvestment, AssetSavings, AssetOther:
		return true
	}
	return false
}

// Asset is a single place where a user holds money.
// Balance is derived: it must always equal InitialBalance plus surviving
// income minus surviving expense. Only the ledger mutator changes it.
type Asset struct {
	AssetID        string           `json:"assetID"`
	UserID         string           `json:"userID"`
	Name           string           `json:"name"`
	Type           AssetType        `json:"type"`
	InitialBalance decimal.Decimal  `json:"initialBalance"`
	Balance        decimal.Decimal  `json:"balance"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold,omitempty"` // Nil disables low-balance notices
	AuditFields
}

// BelowThreshold reports whether the balance is negative or under the
// configured alert threshold.
func (a Asset) BelowThreshold() bool {
	if a.Balance.IsNegative() {
		return true
	}
	return a.AlertThreshold != nil && a.Balance.LessThan(*a.AlertThreshold)
}

// BalanceCheck compares a stored asset balance with the balance recomputed
// from its surviving entries.
type BalanceCheck struct {
	AssetID    string          `json:"assetID"`
	Stored     decimal.Decimal `json:"stored"`
	Computed   decimal.Decimal `json:"computed"`
	Drift      decimal.Decimal `json:"drift"` // Stored minus computed
	Entries    int             `json:"entries"`
	Consistent bool            `json:"consistent"`
}
