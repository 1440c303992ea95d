package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AmortizationStep is one simulated month.
type AmortizationStep struct {
	Month    int             `json:"month"`
	Interest decimal.Decimal `json:"interest"`
	Payment  decimal.Decimal `json:"payment"`
	Balance  decimal.Decimal `json:"balance"` // Remaining after this month
}

// PayoffProjection is the derived outcome of paying a debt at a fixed amount.
// Callers must check Converged before presenting MonthsToPayOff as a date.
type PayoffProjection struct {
	MonthlyPayment decimal.Decimal    `json:"monthlyPayment"`
	MonthsToPayOff int                `json:"monthsToPayOff"`
	TotalInterest  decimal.Decimal    `json:"totalInterest"`
	TotalPaid      decimal.Decimal    `json:"totalPaid"`
	Converged      bool               `json:"converged"`
	Schedule       []AmortizationStep `json:"schedule,omitempty"`
}

// Strategy orders debts for repayment.
type Strategy string

const (
	Avalanche Strategy = "avalanche"
	Snowball  Strategy = "snowball"
)

// ParseStrategy converts user input into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case Avalanche:
		return Avalanche, nil
	case Snowball:
		return Snowball, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", apperrors.ErrValidation, s)
}

// PlannedPayment is a debt with the payment the planner assigned to it.
type PlannedPayment struct {
	Debt            Debt            `json:"debt"`
	MinimumPayment  decimal.Decimal `json:"minimumPayment"`
	AssignedPayment decimal.Decimal `json:"assignedPayment"`
}

// StrategyOutcome summarizes a plan once every planned payment is simulated.
type StrategyOutcome struct {
	Strategy       Strategy                    `json:"strategy"`
	Plan           []PlannedPayment            `json:"plan"`
	Projections    map[string]PayoffProjection `json:"projections"` // Keyed by DebtID
	TotalInterest  decimal.Decimal             `json:"totalInterest"`
	MonthsToPayOff int                         `json:"monthsToPayOff"` // Longest debt in the plan
	Converged      bool                        `json:"converged"`      // False if any debt never pays off
}

// StrategyComparison puts avalanche and snowball side by side.
type StrategyComparison struct {
	Avalanche     StrategyOutcome `json:"avalanche"`
	Snowball      StrategyOutcome `json:"snowball"`
	InterestSaved decimal.Decimal `json:"interestSaved"` // Snowball minus avalanche interest
	MonthsSaved   int             `json:"monthsSaved"`
}
