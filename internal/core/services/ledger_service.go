package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/ledger"
	"github.com/SscSPs/mma_ledger/internal/core/money"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// DefaultCategory is used for entries booked without a category.
const DefaultCategory = "general"

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	assetRepo  portsrepo.AssetRepositoryFacade
	ledgerRepo portsrepo.LedgerReader
	uow        portsrepo.UnitOfWork
}

// ServiceOption is a functional option shared by the services in this package
type ServiceOption func(*BaseService)

// WithNotifier sets the notifier that receives threshold and payoff notices
func WithNotifier(n portssvc.ChangeNotifier) ServiceOption {
	return func(s *BaseService) { s.Notifier = n }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) { s.Now = now }
}

// WithIDGenerator overrides how new ids are generated
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *BaseService) { s.NewID = newID }
}

// NewLedgerService creates the asset and ledger entry service
func NewLedgerService(assets portsrepo.AssetRepositoryFacade, entries portsrepo.LedgerReader, uow portsrepo.UnitOfWork, options ...ServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		BaseService: newBaseService(),
		assetRepo:   assets,
		ledgerRepo:  entries,
		uow:         uow,
	}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) CreateAsset(ctx context.Context, req dto.CreateAssetRequest, userID string) (*domain.Asset, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: asset name is required", apperrors.ErrValidation)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown asset type %q", apperrors.ErrValidation, req.Type)
	}
	var threshold *decimal.Decimal
	if req.AlertThreshold != nil {
		if err := money.RequireNonNegative("alert threshold", *req.AlertThreshold); err != nil {
			return nil, err
		}
		t := money.Round(*req.AlertThreshold)
		threshold = &t
	}

	now := s.Now()
	initial := money.Round(req.InitialBalance)
	asset := domain.Asset{
		AssetID:        s.NewID(),
		UserID:         userID,
		Name:           name,
		Type:           req.Type,
		InitialBalance: initial,
		Balance:        initial,
		AlertThreshold: threshold,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
			Version:       1,
		},
	}

	if err := s.assetRepo.SaveAsset(ctx, asset); err != nil {
		s.LogError(ctx, err, "Failed to save asset in repository", slog.String("asset_id", asset.AssetID))
		return nil, err
	}

	s.LogInfo(ctx, "Asset created successfully", slog.String("asset_id", asset.AssetID), slog.String("type", string(asset.Type)))
	return &asset, nil
}

func (s *ledgerService) GetAsset(ctx context.Context, assetID string, userID string) (*domain.Asset, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find asset", slog.String("asset_id", assetID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, asset.UserID, userID, "asset", assetID); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *ledgerService) ListAssets(ctx context.Context, userID string) ([]domain.Asset, error) {
	assets, err := s.assetRepo.ListAssetsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list assets", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	if assets == nil {
		return []domain.Asset{}, nil
	}
	return assets, nil
}

func (s *ledgerService) RecordEntry(ctx context.Context, assetID string, req dto.RecordEntryRequest, userID string) (*domain.LedgerEntry, *domain.Asset, error) {
	if !req.Kind.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, req.Kind)
	}
	if err := money.RequirePositive("amount", req.Amount); err != nil {
		return nil, nil, err
	}
	amount := money.Round(req.Amount)
	if !amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount rounds to zero", apperrors.ErrValidation)
	}

	asset, err := s.GetAsset(ctx, assetID, userID)
	if err != nil {
		return nil, nil, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	if category == domain.CategoryDebtPayment {
		return nil, nil, fmt.Errorf("%w: category %s is reserved for debt payments", apperrors.ErrValidation, category)
	}

	now := s.Now()
	entry := domain.LedgerEntry{
		EntryID:     s.NewID(),
		Kind:        req.Kind,
		Amount:      amount,
		AssetID:     asset.AssetID,
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		CreatedBy:   userID,
	}

	updated, err := ledger.NewBalanceMutator().ApplyEntry(*asset, entry)
	if err != nil {
		return nil, nil, err
	}
	updated.Touch(userID, now)

	if err := s.uow.CommitEntry(ctx, updated, entry); err != nil {
		s.LogFailure(ctx, err, "Failed to commit ledger entry",
			slog.String("asset_id", asset.AssetID),
			slog.String("entry_id", entry.EntryID))
		return nil, nil, err
	}
	updated.Version++

	s.LogInfo(ctx, "Ledger entry recorded",
		slog.String("asset_id", updated.AssetID),
		slog.String("entry_id", entry.EntryID),
		slog.String("kind", string(entry.Kind)),
		slog.String("balance", updated.Balance.String()))

	s.notifyIfBelowThreshold(ctx, updated)
	return &entry, &updated, nil
}

func (s *ledgerService) DeleteEntry(ctx context.Context, entryID string, userID string) (*domain.Asset, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find ledger entry", slog.String("entry_id", entryID))
		return nil, err
	}
	asset, err := s.GetAsset(ctx, entry.AssetID, userID)
	if err != nil {
		return nil, err
	}
	if entry.DebtID != nil {
		return nil, fmt.Errorf("%w: entry %s belongs to a payment on debt %s", apperrors.ErrValidation, entry.EntryID, *entry.DebtID)
	}

	updated, err := ledger.NewBalanceMutator().RevertEntry(*asset, *entry)
	if err != nil {
		s.LogWarn(ctx, err, "Ledger entry revert rejected", slog.String("entry_id", entryID))
		return nil, err
	}
	now := s.Now()
	updated.Touch(userID, now)

	if err := s.uow.CommitRevert(ctx, updated, entry.EntryID, now); err != nil {
		s.LogFailure(ctx, err, "Failed to commit ledger entry revert",
			slog.String("asset_id", asset.AssetID),
			slog.String("entry_id", entry.EntryID))
		return nil, err
	}
	updated.Version++

	s.LogInfo(ctx, "Ledger entry reverted",
		slog.String("asset_id", updated.AssetID),
		slog.String("entry_id", entry.EntryID),
		slog.String("balance", updated.Balance.String()))

	s.notifyIfBelowThreshold(ctx, updated)
	return &updated, nil
}

func (s *ledgerService) VerifyAssetBalance(ctx context.Context, assetID string, userID string) (*domain.BalanceCheck, error) {
	asset, err := s.GetAsset(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListEntriesByAsset(ctx, assetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("asset_id", assetID))
		return nil, fmt.Errorf("failed to list entries for asset %s: %w", assetID, err)
	}

	computed := ledger.Reconcile(asset.InitialBalance, entries)
	drift := asset.Balance.Sub(computed)
	check := &domain.BalanceCheck{
		AssetID:    assetID,
		Stored:     asset.Balance,
		Computed:   computed,
		Drift:      drift,
		Entries:    len(entries),
		Consistent: drift.IsZero(),
	}

	if !check.Consistent {
		s.GetLogger(ctx).Warn("Asset balance drift detected",
			slog.String("asset_id", assetID),
			slog.String("stored", asset.Balance.String()),
			slog.String("computed", computed.String()))
	}
	return check, nil
}
