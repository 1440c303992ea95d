package services

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PlanningSvcFacade defines read-only payoff projections and strategy plans.
type PlanningSvcFacade interface {
	// Project simulates paying debtID at monthlyPayment.
	Project(ctx context.Context, debtID string, monthlyPayment decimal.Decimal, withSchedule bool, userID string) (*domain.PayoffProjection, error)

	// Plan orders the user's active debts by strategy and simulates the plan.
	Plan(ctx context.Context, userID string, extraBudget decimal.Decimal, strategy domain.Strategy) (*domain.StrategyOutcome, error)

	// Compare runs avalanche and snowball on the user's active debts.
	Compare(ctx context.Context, userID string, extraBudget decimal.Decimal) (*domain.StrategyComparison, error)
}
