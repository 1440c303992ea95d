package dto

import (
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NonConvergentWarning is attached to projections that never pay off.
const NonConvergentWarning = "this payment will never pay off this debt"

// ProjectionParams defines query parameters for a payoff projection.
// MonthlyPayment is parsed leniently ("12.34" or "12,34").
type ProjectionParams struct {
	MonthlyPayment string `form:"monthlyPayment" binding:"required"`
	Schedule       bool   `form:"schedule,default=false"`
}

// ProjectionResponse wraps a projection with a warning when it does not converge.
type ProjectionResponse struct {
	domain.PayoffProjection
	Warning string `json:"warning,omitempty"`
}

// PlanRequest asks for a repayment plan under one strategy.
type PlanRequest struct {
	ExtraBudget decimal.Decimal `json:"extraBudget" binding:"dgte0"`
	Strategy    string          `json:"strategy" binding:"required"`
}

// CompareRequest asks for avalanche and snowball side by side.
type CompareRequest struct {
	ExtraBudget decimal.Decimal `json:"extraBudget" binding:"dgte0"`
}

// PlanResponse wraps a strategy outcome.
type PlanResponse struct {
	domain.StrategyOutcome
	Warning string `json:"warning,omitempty"`
}

// CompareResponse wraps a strategy comparison.
type CompareResponse struct {
	domain.StrategyComparison
	Warning string `json:"warning,omitempty"`
}

// ToProjectionResponse converts a projection, flagging non-convergence.
func ToProjectionResponse(p *domain.PayoffProjection) ProjectionResponse {
	res := ProjectionResponse{PayoffProjection: *p}
	if !p.Converged {
		res.Warning = NonConvergentWarning
	}
	return res
}

// ToPlanResponse converts a strategy outcome, flagging non-convergence.
func ToPlanResponse(o *domain.StrategyOutcome) PlanResponse {
	res := PlanResponse{StrategyOutcome: *o}
	if !o.Converged {
		res.Warning = NonConvergentWarning
	}
	return res
}

// ToCompareResponse converts a comparison, flagging non-convergence of either side.
func ToCompareResponse(c *domain.StrategyComparison) CompareResponse {
	res := CompareResponse{StrategyComparison: *c}
	if !c.Avalanche.Converged || !c.Snowball.Converged {
		res.Warning = NonConvergentWarning
	}
	return res
}
