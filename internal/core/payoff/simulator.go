// Package payoff projects how a debt evolves under a fixed monthly payment.
//
// Rates are percentages per simulation step. A debt labelled with an annual
// rate must be converted with MonthlyRateFromAnnual before simulating.
package payoff

import (
	"fmt"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/money"
	"github.com/shopspring/decimal"
)

// MaxMonths caps every simulation so a payment that never covers the interest
// still terminates.
const MaxMonths = 1000

// internalPrecision bounds the fractional digits carried between months.
// Every month multiplies by the rate and would otherwise grow the scale
// without limit over a long horizon.
const internalPrecision int32 = 12

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	// Epsilon is the remaining balance under which a debt counts as paid.
	Epsilon = decimal.NewFromInt(1)
)

// MonthlyRateFromAnnual converts an annual percentage into the per-step rate
// the simulator expects.
func MonthlyRateFromAnnual(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}

// Step runs a single month: interest accrues on balance, then the payment is
// taken off. The returned balance is not clamped.
func Step(balance, ratePercent, payment decimal.Decimal) (newBalance, interest decimal.Decimal) {
	interest = balance.Mul(ratePercent).Div(hundred).Round(internalPrecision)
	return balance.Add(interest).Sub(payment), interest
}

// Simulate projects debt under monthlyPayment without keeping the trajectory.
func Simulate(debt domain.Debt, monthlyPayment decimal.Decimal) (domain.PayoffProjection, error) {
	return simulate(debt, monthlyPayment, false)
}

// SimulateSchedule is Simulate plus the month-by-month schedule.
func SimulateSchedule(debt domain.Debt, monthlyPayment decimal.Decimal) (domain.PayoffProjection, error) {
	return simulate(debt, monthlyPayment, true)
}

func simulate(debt domain.Debt, monthlyPayment decimal.Decimal, keepSchedule bool) (domain.PayoffProjection, error) {
	if err := validate(debt, monthlyPayment); err != nil {
		return domain.PayoffProjection{}, err
	}

	original := debt.Balance
	balance := original
	totalInterest := decimal.Zero
	months := 0
	converged := balance.LessThan(Epsilon)

	var schedule []domain.AmortizationStep
	if keepSchedule {
		schedule = make([]domain.AmortizationStep, 0, 64)
	}

	for !converged && months < MaxMonths {
		var interest decimal.Decimal
		balance, interest = Step(balance, debt.InterestRate, monthlyPayment)
		totalInterest = totalInterest.Add(interest)
		months++

		paid := monthlyPayment
		if balance.LessThan(Epsilon) {
			// The last payment only needs to cover what was left.
			if balance.IsNegative() {
				paid = monthlyPayment.Add(balance)
			}
			balance = decimal.Zero
			converged = true
		}

		if keepSchedule {
			schedule = append(schedule, domain.AmortizationStep{
				Month:    months,
				Interest: money.Round(interest),
				Payment:  money.Round(paid),
				Balance:  money.Round(balance),
			})
		}
	}

	totalInterest = money.Round(totalInterest)
	return domain.PayoffProjection{
		MonthlyPayment: money.Round(monthlyPayment),
		MonthsToPayOff: months,
		TotalInterest:  totalInterest,
		TotalPaid:      money.Round(original).Add(totalInterest),
		Converged:      converged,
		Schedule:       schedule,
	}, nil
}

func validate(debt domain.Debt, monthlyPayment decimal.Decimal) error {
	if err := money.RequirePositive("monthly payment", monthlyPayment); err != nil {
		return err
	}
	if debt.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative, got %s", apperrors.ErrValidation, debt.InterestRate.String())
	}
	if err := money.RequireNonNegative("debt balance", debt.Balance); err != nil {
		return err
	}
	return nil
}
