package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/ledger"
	"github.com/SscSPs/mma_ledger/internal/core/money"
	"github.com/SscSPs/mma_ledger/internal/core/payment"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// debtService implements the DebtSvcFacade interface
type debtService struct {
	BaseService
	debtRepo  portsrepo.DebtRepositoryFacade
	assetRepo portsrepo.AssetReader
	uow       portsrepo.UnitOfWork
}

// NewDebtService creates the debt and payment service
func NewDebtService(debts portsrepo.DebtRepositoryFacade, assets portsrepo.AssetReader, uow portsrepo.UnitOfWork, options ...ServiceOption) portssvc.DebtSvcFacade {
	svc := &debtService{
		BaseService: newBaseService(),
		debtRepo:    debts,
		assetRepo:   assets,
		uow:         uow,
	}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.DebtSvcFacade = (*debtService)(nil)

func (s *debtService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest, userID string) (*domain.Debt, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: debt name is required", apperrors.ErrValidation)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown debt type %q", apperrors.ErrValidation, req.Type)
	}
	if err := money.RequireNonNegative("balance", req.Balance); err != nil {
		return nil, err
	}
	if err := money.RequireNonNegative("interest rate", req.InterestRate); err != nil {
		return nil, err
	}

	balance := money.Round(req.Balance)
	original := balance
	if req.OriginalAmount != nil {
		if err := money.RequireNonNegative("original amount", *req.OriginalAmount); err != nil {
			return nil, err
		}
		original = money.Round(*req.OriginalAmount)
	}
	minimum := decimal.Zero
	if req.MinimumPayment != nil {
		if err := money.RequireNonNegative("minimum payment", *req.MinimumPayment); err != nil {
			return nil, err
		}
		minimum = money.Round(*req.MinimumPayment)
	}

	now := s.Now()
	debt := domain.Debt{
		DebtID:         s.NewID(),
		UserID:         userID,
		Name:           name,
		Type:           req.Type,
		Balance:        balance,
		OriginalAmount: original,
		InterestRate:   money.RoundRate(req.InterestRate),
		MinimumPayment: minimum,
		DueDate:        req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
			Version:       1,
		},
	}
	if debt.Balance.IsZero() {
		debt.Archive(now)
	}

	if err := s.debtRepo.SaveDebt(ctx, debt); err != nil {
		s.LogError(ctx, err, "Failed to save debt in repository", slog.String("debt_id", debt.DebtID))
		return nil, err
	}

	s.LogInfo(ctx, "Debt created successfully", slog.String("debt_id", debt.DebtID), slog.String("type", string(debt.Type)))
	return &debt, nil
}

func (s *debtService) GetDebt(ctx context.Context, debtID string, userID string) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find debt", slog.String("debt_id", debtID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, debt.UserID, userID, "debt", debtID); err != nil {
		return nil, err
	}
	return debt, nil
}

func (s *debtService) ListDebts(ctx context.Context, userID string, includeArchived bool) ([]domain.Debt, error) {
	debts, err := s.debtRepo.ListDebtsByUser(ctx, userID, includeArchived)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debts", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	if debts == nil {
		return []domain.Debt{}, nil
	}
	return debts, nil
}

func (s *debtService) MakePayment(ctx context.Context, record domain.PaymentRecord, userID string) (*domain.PaymentResult, error) {
	debt, err := s.GetDebt(ctx, record.DebtID, userID)
	if err != nil {
		return nil, err
	}
	asset, err := s.assetRepo.FindAssetByID(ctx, record.AssetID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find funding asset", slog.String("asset_id", record.AssetID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, asset.UserID, userID, "asset", record.AssetID); err != nil {
		return nil, err
	}

	recorder := payment.NewRecorder(ledger.NewBalanceMutator(),
		payment.WithClock(s.Now),
		payment.WithIDGenerator(s.NewID),
	)
	result, err := recorder.MakePayment(*debt, *asset, record)
	if err != nil {
		s.LogWarn(ctx, err, "Payment rejected", slog.String("debt_id", debt.DebtID))
		return nil, err
	}

	if err := s.uow.CommitPayment(ctx, result); err != nil {
		s.LogFailure(ctx, err, "Failed to commit payment",
			slog.String("debt_id", debt.DebtID),
			slog.String("asset_id", asset.AssetID))
		return nil, err
	}
	result.Debt.Version++
	result.Asset.Version++

	s.LogInfo(ctx, "Payment recorded",
		slog.String("debt_id", result.Debt.DebtID),
		slog.String("entry_id", result.Entry.EntryID),
		slog.String("amount", result.Entry.Amount.String()),
		slog.String("debt_balance", result.Debt.Balance.String()),
		slog.Bool("paid_off", result.Debt.IsArchived))

	if result.Debt.IsArchived {
		s.Notify(ctx, domain.Notice{
			Message:  fmt.Sprintf("Debt %s is paid off", result.Debt.Name),
			Severity: domain.SeverityInfo,
			UserID:   userID,
			Subject:  result.Debt.DebtID,
		})
	}
	s.notifyIfBelowThreshold(ctx, result.Asset)
	return &result, nil
}
