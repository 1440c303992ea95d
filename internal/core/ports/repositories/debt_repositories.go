package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// DebtReader defines read operations for debt data
type DebtReader interface {
	// FindDebtByID retrieves a debt by its unique identifier.
	FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error)

	// ListDebtsByUser retrieves the debts owned by userID. Archived debts are
	// only included when includeArchived is set.
	ListDebtsByUser(ctx context.Context, userID string, includeArchived bool) ([]domain.Debt, error)

	// ListDebtsDueBefore retrieves active debts with a due date at or before the given time.
	ListDebtsDueBefore(ctx context.Context, before time.Time) ([]domain.Debt, error)
}

// DebtWriter defines write operations for debt data
type DebtWriter interface {
	// SaveDebt persists a new debt.
	SaveDebt(ctx context.Context, debt domain.Debt) error
}

// DebtRepositoryFacade combines all debt-related repository interfaces
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
}
