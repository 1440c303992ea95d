package money_test

import (
	"math"
	"testing"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12.34", want: "12.34"},
		{in: "12,34", want: "12.34"},
		{in: " 1000 ", want: "1000"},
		{in: "-5.5", want: "-5.5"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "+Inf", wantErr: true},
		{in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFromFloat_RejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := money.FromFloat(f)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}

	d, err := money.FromFloat(19.99)
	require.NoError(t, err)
	assert.Equal(t, "19.99", d.String())
}

func TestRound(t *testing.T) {
	assert.Equal(t, "10.01", money.Round(decimal.RequireFromString("10.005")).String())
	assert.Equal(t, "-10.01", money.Round(decimal.RequireFromString("-10.005")).String())
	assert.Equal(t, "3.33", money.Round(decimal.NewFromInt(10).Div(decimal.NewFromInt(3))).String())
}

func TestRoundRate(t *testing.T) {
	assert.Equal(t, "1.2346", money.RoundRate(decimal.RequireFromString("1.23456")).String())
	assert.Equal(t, "19.99", money.RoundRate(decimal.RequireFromString("19.99")).String())
}

func TestRequireHelpers(t *testing.T) {
	assert.NoError(t, money.RequireNonNegative("amount", decimal.Zero))
	assert.ErrorIs(t, money.RequireNonNegative("amount", decimal.NewFromInt(-1)), apperrors.ErrValidation)
	assert.ErrorIs(t, money.RequirePositive("amount", decimal.Zero), apperrors.ErrValidation)
	assert.NoError(t, money.RequirePositive("amount", decimal.RequireFromString("0.01")))
}
