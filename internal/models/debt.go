package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// DebtType mirrors the debt_type column.
type DebtType string

// Debt represents a row of the debts table.
type Debt struct {
	DebtID         string          `db:"debt_id"`
	UserID         string          `db:"user_id"`
	Name           string          `db:"name"`
	DebtType       DebtType        `db:"debt_type"`
	Balance        decimal.Decimal `db:"balance"`
	OriginalAmount decimal.Decimal `db:"original_amount"`
	InterestRate   decimal.Decimal `db:"interest_rate"` // Monthly percentage
	MinimumPayment decimal.Decimal `db:"minimum_payment"`
	DueDate        sql.NullTime    `db:"due_date"`
	IsArchived     bool            `db:"is_archived"`
	ArchivedAt     sql.NullTime    `db:"archived_at"`
	AuditFields
}
