// Package planner orders debts by a repayment strategy and splits a monthly
// budget across them. It only reads debt snapshots.
package planner

import (
	"fmt"
	"sort"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/money"
	"github.com/SscSPs/mma_ledger/internal/core/payoff"
	"github.com/shopspring/decimal"
)

var (
	minimumRate  = decimal.RequireFromString("0.02")
	minimumFloor = decimal.NewFromInt(50)
)

// MinimumPayment is the default minimum for a balance: 2% of it, never less
// than 50.
func MinimumPayment(balance decimal.Decimal) decimal.Decimal {
	return money.Round(decimal.Max(balance.Mul(minimumRate), minimumFloor))
}

// minimumFor uses the debt's own minimum when set.
func minimumFor(d domain.Debt) decimal.Decimal {
	if d.MinimumPayment.IsPositive() {
		return money.Round(d.MinimumPayment)
	}
	return MinimumPayment(d.Balance)
}

// Plan assigns every active debt its minimum payment and gives the whole
// extra budget to the first debt in strategy order. Assigned payments never
// exceed the debt balance.
func Plan(debts []domain.Debt, extraBudget decimal.Decimal, strategy domain.Strategy) ([]domain.PlannedPayment, error) {
	if err := money.RequireNonNegative("extra budget", extraBudget); err != nil {
		return nil, err
	}
	less, err := orderFor(strategy)
	if err != nil {
		return nil, err
	}

	active := make([]domain.Debt, 0, len(debts))
	for _, d := range debts {
		if d.IsActive() {
			active = append(active, d)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return less(active[i], active[j]) })

	extra := money.Round(extraBudget)
	plan := make([]domain.PlannedPayment, 0, len(active))
	for i, d := range active {
		minimum := minimumFor(d)
		assigned := minimum
		if i == 0 {
			assigned = assigned.Add(extra)
		}
		plan = append(plan, domain.PlannedPayment{
			Debt:            d,
			MinimumPayment:  minimum,
			AssignedPayment: decimal.Min(assigned, d.Balance),
		})
	}
	return plan, nil
}

// Outcome plans debts with strategy and simulates every planned payment.
func Outcome(debts []domain.Debt, extraBudget decimal.Decimal, strategy domain.Strategy) (domain.StrategyOutcome, error) {
	plan, err := Plan(debts, extraBudget, strategy)
	if err != nil {
		return domain.StrategyOutcome{}, err
	}

	out := domain.StrategyOutcome{
		Strategy:      strategy,
		Plan:          plan,
		Projections:   make(map[string]domain.PayoffProjection, len(plan)),
		TotalInterest: decimal.Zero,
		Converged:     true,
	}
	for _, p := range plan {
		proj, err := payoff.Simulate(p.Debt, p.AssignedPayment)
		if err != nil {
			return domain.StrategyOutcome{}, fmt.Errorf("simulate debt %s: %w", p.Debt.DebtID, err)
		}
		out.Projections[p.Debt.DebtID] = proj
		out.TotalInterest = out.TotalInterest.Add(proj.TotalInterest)
		if proj.MonthsToPayOff > out.MonthsToPayOff {
			out.MonthsToPayOff = proj.MonthsToPayOff
		}
		out.Converged = out.Converged && proj.Converged
	}
	return out, nil
}

// Compare runs both strategies over the same debts and budget.
func Compare(debts []domain.Debt, extraBudget decimal.Decimal) (domain.StrategyComparison, error) {
	avalanche, err := Outcome(debts, extraBudget, domain.Avalanche)
	if err != nil {
		return domain.StrategyComparison{}, err
	}
	snowball, err := Outcome(debts, extraBudget, domain.Snowball)
	if err != nil {
		return domain.StrategyComparison{}, err
	}
	return domain.StrategyComparison{
		Avalanche:     avalanche,
		Snowball:      snowball,
		InterestSaved: snowball.TotalInterest.Sub(avalanche.TotalInterest),
		MonthsSaved:   snowball.MonthsToPayOff - avalanche.MonthsToPayOff,
	}, nil
}

type lessFunc func(a, b domain.Debt) bool

func orderFor(strategy domain.Strategy) (lessFunc, error) {
	switch strategy {
	case domain.Avalanche:
		return avalancheLess, nil
	case domain.Snowball:
		return snowballLess, nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", apperrors.ErrValidation, strategy)
}

// Highest rate first, then larger balance.
func avalancheLess(a, b domain.Debt) bool {
	if c := a.InterestRate.Cmp(b.InterestRate); c != 0 {
		return c > 0
	}
	if c := a.Balance.Cmp(b.Balance); c != 0 {
		return c > 0
	}
	return tieBreak(a, b)
}

// Smallest balance first, then higher rate.
func snowballLess(a, b domain.Debt) bool {
	if c := a.Balance.Cmp(b.Balance); c != 0 {
		return c < 0
	}
	if c := a.InterestRate.Cmp(b.InterestRate); c != 0 {
		return c > 0
	}
	return tieBreak(a, b)
}

func tieBreak(a, b domain.Debt) bool {
	if a.DebtID != b.DebtID {
		return a.DebtID < b.DebtID
	}
	return a.Name < b.Name
}
