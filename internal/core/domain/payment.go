package domain

import (
	"github.com/shopspring/decimal"
)

// PaymentType describes why a payment is made.
type PaymentType string

const (
	PaymentRegular      PaymentType = "regular"
	PaymentExtra        PaymentType = "extra"
	PaymentInterestOnly PaymentType = "interest_only"
)

// IsValid reports whether t is a known payment type.
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentRegular, PaymentExtra, PaymentInterestOnly:
		return true
	}
	return false
}

// PaymentRecord is the input to a debt payment. It is never stored by itself;
// it becomes one debt mutation plus one expense entry on AssetID.
type PaymentRecord struct {
	DebtID      string          `json:"debtID"`
	AssetID     string          `json:"assetID"`
	Amount      decimal.Decimal `json:"amount"`
	Type        PaymentType     `json:"type"`
	Description string          `json:"description,omitempty"`
}

// PaymentResult is the unit of work produced by a payment. Stores must commit
// all three records together or none of them.
type PaymentResult struct {
	Debt  Debt        `json:"debt"`
	Entry LedgerEntry `json:"entry"`
	Asset Asset       `json:"asset"`
}

// Severity ranks a notice.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notice is a message for the change notifier, e.g. a budget threshold alert.
type Notice struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	UserID   string   `json:"userID,omitempty"`
	Subject  string   `json:"subject,omitempty"` // Asset or debt id the notice is about
}
