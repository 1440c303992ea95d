package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/payoff"
	"github.com/SscSPs/mma_ledger/internal/core/planner"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// planningService implements PlanningSvcFacade. It never writes.
type planningService struct {
	BaseService
	debtRepo portsrepo.DebtReader
}

// NewPlanningService creates the projection and strategy service
func NewPlanningService(debts portsrepo.DebtReader, options ...ServiceOption) portssvc.PlanningSvcFacade {
	svc := &planningService{
		BaseService: newBaseService(),
		debtRepo:    debts,
	}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.PlanningSvcFacade = (*planningService)(nil)

func (s *planningService) Project(ctx context.Context, debtID string, monthlyPayment decimal.Decimal, withSchedule bool, userID string) (*domain.PayoffProjection, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find debt", slog.String("debt_id", debtID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, debt.UserID, userID, "debt", debtID); err != nil {
		return nil, err
	}

	simulate := payoff.Simulate
	if withSchedule {
		simulate = payoff.SimulateSchedule
	}
	projection, err := simulate(*debt, monthlyPayment)
	if err != nil {
		return nil, err
	}

	if !projection.Converged {
		s.GetLogger(ctx).Warn("Payment never pays off debt",
			slog.String("debt_id", debtID),
			slog.String("monthly_payment", monthlyPayment.String()))
	}
	return &projection, nil
}

func (s *planningService) Plan(ctx context.Context, userID string, extraBudget decimal.Decimal, strategy domain.Strategy) (*domain.StrategyOutcome, error) {
	debts, err := s.activeDebts(ctx, userID)
	if err != nil {
		return nil, err
	}
	outcome, err := planner.Outcome(debts, extraBudget, strategy)
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Repayment plan computed",
		slog.String("strategy", string(strategy)),
		slog.Int("debts", len(outcome.Plan)),
		slog.Bool("converged", outcome.Converged))
	return &outcome, nil
}

func (s *planningService) Compare(ctx context.Context, userID string, extraBudget decimal.Decimal) (*domain.StrategyComparison, error) {
	debts, err := s.activeDebts(ctx, userID)
	if err != nil {
		return nil, err
	}
	comparison, err := planner.Compare(debts, extraBudget)
	if err != nil {
		return nil, err
	}
	return &comparison, nil
}

func (s *planningService) activeDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	debts, err := s.debtRepo.ListDebtsByUser(ctx, userID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debts for planning", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	return debts, nil
}
