package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtType is the kind of liability.
type DebtType string

const (
	DebtCreditCard   DebtType = "credit_card"
	DebtPersonalLoan DebtType = "personal_loan"
	DebtMortgage     DebtType = "mortgage"
	DebtStudentLoan  DebtType = "student_loan"
	DebtAutoLoan     DebtType = "auto_loan"
	DebtOther        DebtType = "other"
)

// IsValid reports whether t is one of the known debt types.
func (t DebtType) IsValid() bool {
	switch t {
	case DebtCreditCard, DebtPersonalLoan, DebtMortgage, DebtStudentLoan, DebtAutoLoan, DebtOther:
		return true
	}
	return false
}

// Debt is an outstanding liability.
//
// InterestRate is a percentage applied once per simulation step (monthly).
// Callers holding an annual rate convert it with payoff.MonthlyRateFromAnnual.
// A zero MinimumPayment means the planner's default rule applies.
type Debt struct {
	DebtID         string          `json:"debtID"`
	UserID         string          `json:"userID"`
	Name           string          `json:"name"`
	Type           DebtType        `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	MinimumPayment decimal.Decimal `json:"minimumPayment"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	IsArchived     bool            `json:"isArchived"`
	ArchivedAt     *time.Time      `json:"archivedAt,omitempty"`
	AuditFields
}

// Archive marks the debt as paid off. Archiving is terminal; calling it on an
// already archived debt keeps the original timestamp.
func (d *Debt) Archive(now time.Time) {
	if d.IsArchived {
		return
	}
	d.IsArchived = true
	d.ArchivedAt = &now
}

// IsActive reports whether the debt still has something to pay.
func (d Debt) IsActive() bool {
	return !d.IsArchived && d.Balance.IsPositive()
}
