package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// MockAssetRepository is a mock type for the AssetRepositoryFacade interface
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) ListAssetsByUser(ctx context.Context, userID string) ([]domain.Asset, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

// MockDebtRepository is a mock type for the DebtRepositoryFacade interface
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) ListDebtsByUser(ctx context.Context, userID string, includeArchived bool) ([]domain.Debt, error) {
	args := m.Called(ctx, userID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) ListDebtsDueBefore(ctx context.Context, before time.Time) ([]domain.Debt, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerReader interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAsset(ctx context.Context, assetID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockUnitOfWork is a mock type for the UnitOfWork interface
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) CommitEntry(ctx context.Context, asset domain.Asset, entry domain.LedgerEntry) error {
	args := m.Called(ctx, asset, entry)
	return args.Error(0)
}

func (m *MockUnitOfWork) CommitRevert(ctx context.Context, asset domain.Asset, entryID string, at time.Time) error {
	args := m.Called(ctx, asset, entryID, at)
	return args.Error(0)
}

func (m *MockUnitOfWork) CommitPayment(ctx context.Context, result domain.PaymentResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// MockNotifier is a mock type for the ChangeNotifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, notice domain.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

// Ensure mocks implement the interfaces
var (
	_ portsrepo.AssetRepositoryFacade = (*MockAssetRepository)(nil)
	_ portsrepo.DebtRepositoryFacade  = (*MockDebtRepository)(nil)
	_ portsrepo.LedgerReader          = (*MockLedgerRepository)(nil)
	_ portsrepo.UnitOfWork            = (*MockUnitOfWork)(nil)
	_ portssvc.ChangeNotifier         = (*MockNotifier)(nil)
)
