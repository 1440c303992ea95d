// Package money holds the decimal boundary rules shared by the ledger and the
// payoff engine: how amounts enter the core and how they are rounded.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept at the public boundary.
const Precision int32 = 2

// RatePrecision is the number of fractional digits kept for interest rates.
const RatePrecision int32 = 4

// Round rounds an amount to Precision digits, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// RoundRate rounds an interest rate percentage to RatePrecision digits.
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RatePrecision)
}

// FromFloat converts a float64 into a decimal, rejecting NaN and infinities.
func FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: amount must be a finite number", apperrors.ErrValidation)
	}
	return decimal.NewFromFloat(f), nil
}

// Parse reads an amount such as "12.34" or "12,34".
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "nan") || strings.Contains(lower, "inf") {
		return decimal.Zero, fmt.Errorf("%w: amount must be a finite number", apperrors.ErrValidation)
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, s)
	}
	return d, nil
}

// RequireNonNegative returns ErrValidation when d < 0.
func RequireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrValidation, field, d.String())
	}
	return nil
}

// RequirePositive returns ErrValidation when d <= 0.
func RequirePositive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero, got %s", apperrors.ErrValidation, field, d.String())
	}
	return nil
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
