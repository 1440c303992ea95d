package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/core/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func balanceIs(want string) interface{} {
	return mock.MatchedBy(func(a domain.Asset) bool { return a.Balance.Equal(dec(want)) })
}

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	assets   *MockAssetRepository
	entries  *MockLedgerRepository
	uow      *MockUnitOfWork
	notifier *MockNotifier
	service  portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.assets = new(MockAssetRepository)
	suite.entries = new(MockLedgerRepository)
	suite.uow = new(MockUnitOfWork)
	suite.notifier = new(MockNotifier)

	ids := 0
	suite.service = services.NewLedgerService(suite.assets, suite.entries, suite.uow,
		services.WithNotifier(suite.notifier),
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithIDGenerator(func() string { ids++; return fmt.Sprintf("id-%d", ids) }),
	)
}

func (suite *LedgerServiceTestSuite) TearDownTest() {
	suite.assets.AssertExpectations(suite.T())
	suite.entries.AssertExpectations(suite.T())
	suite.uow.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) checking(balance string) *domain.Asset {
	return &domain.Asset{
		AssetID:        "asset-1",
		UserID:         "user-1",
		Name:           "Checking",
		Type:           domain.AssetBankAccount,
		InitialBalance: dec("5000"),
		Balance:        dec(balance),
		AuditFields:    domain.AuditFields{Version: 3},
	}
}

func (suite *LedgerServiceTestSuite) TestCreateAsset_Success() {
	threshold := dec("100")
	req := dto.CreateAssetRequest{Name: " Wallet ", Type: domain.AssetCash, InitialBalance: dec("250.505"), AlertThreshold: &threshold}

	suite.assets.On("SaveAsset", suite.ctx, mock.MatchedBy(func(a domain.Asset) bool {
		return a.AssetID == "id-1" && a.Name == "Wallet" && a.Balance.Equal(dec("250.51"))
	})).Return(nil).Once()

	asset, err := suite.service.CreateAsset(suite.ctx, req, "user-1")
	suite.Require().NoError(err)
	suite.Equal("user-1", asset.UserID)
	suite.True(asset.InitialBalance.Equal(asset.Balance))
	suite.Equal(int64(1), asset.Version)
	suite.Equal(fixedNow, asset.CreatedAt)
	suite.Require().NotNil(asset.AlertThreshold)
	suite.True(dec("100").Equal(*asset.AlertThreshold))
}

func (suite *LedgerServiceTestSuite) TestCreateAsset_Validation() {
	_, err := suite.service.CreateAsset(suite.ctx, dto.CreateAssetRequest{Name: "X", Type: "wallet"}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateAsset(suite.ctx, dto.CreateAssetRequest{Name: "  ", Type: domain.AssetCash}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.assets.AssertNotCalled(suite.T(), "SaveAsset", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestGetAsset_OtherUserIsNotFound() {
	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("5000"), nil).Once()

	_, err := suite.service.GetAsset(suite.ctx, "asset-1", "intruder")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestRecordEntry_Income() {
	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("5000"), nil).Once()
	suite.uow.On("CommitEntry", suite.ctx,
		mock.MatchedBy(func(a domain.Asset) bool {
			return a.Balance.Equal(dec("8000")) && a.Version == 3 && a.LastUpdatedBy == "user-1"
		}),
		mock.MatchedBy(func(e domain.LedgerEntry) bool {
			return e.EntryID == "id-1" && e.Kind == domain.Income && e.Category == services.DefaultCategory
		}),
	).Return(nil).Once()

	entry, asset, err := suite.service.RecordEntry(suite.ctx, "asset-1", dto.RecordEntryRequest{Kind: domain.Income, Amount: dec("3000")}, "user-1")
	suite.Require().NoError(err)
	suite.True(dec("3000").Equal(entry.Amount))
	suite.Equal(fixedNow, entry.CreatedAt)
	suite.True(dec("8000").Equal(asset.Balance))
	suite.Equal(int64(4), asset.Version)
}

func (suite *LedgerServiceTestSuite) TestRecordEntry_BelowThresholdNotifies() {
	threshold := dec("1000")
	a := suite.checking("1500")
	a.AlertThreshold = &threshold

	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(a, nil).Once()
	suite.uow.On("CommitEntry", suite.ctx, balanceIs("300"), mock.Anything).Return(nil).Once()
	suite.notifier.On("Notify", suite.ctx, mock.MatchedBy(func(n domain.Notice) bool {
		return n.Severity == domain.SeverityWarning && n.Subject == "asset-1" && n.UserID == "user-1"
	})).Return(errors.New("broker down")).Once()

	_, asset, err := suite.service.RecordEntry(suite.ctx, "asset-1", dto.RecordEntryRequest{Kind: domain.Expense, Amount: dec("1200")}, "user-1")
	suite.Require().NoError(err, "notifier failures must not fail the entry")
	suite.True(asset.BelowThreshold())
}

func (suite *LedgerServiceTestSuite) TestRecordEntry_ConflictIsReturned() {
	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("5000"), nil).Once()
	suite.uow.On("CommitEntry", suite.ctx, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: asset asset-1", apperrors.ErrConflict)).Once()

	_, _, err := suite.service.RecordEntry(suite.ctx, "asset-1", dto.RecordEntryRequest{Kind: domain.Expense, Amount: dec("10")}, "user-1")
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.notifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordEntry_Validation() {
	tests := []dto.RecordEntryRequest{
		{Kind: domain.Income, Amount: decimal.Zero},
		{Kind: domain.Income, Amount: dec("-5")},
		{Kind: domain.Income, Amount: dec("0.004")},
		{Kind: "transfer", Amount: dec("5")},
	}
	for _, req := range tests {
		_, _, err := suite.service.RecordEntry(suite.ctx, "asset-1", req, "user-1")
		suite.ErrorIs(err, apperrors.ErrValidation, "request %+v", req)
	}

	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("5000"), nil).Once()
	_, _, err := suite.service.RecordEntry(suite.ctx, "asset-1", dto.RecordEntryRequest{Kind: domain.Expense, Amount: dec("5"), Category: domain.CategoryDebtPayment}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_RevertsOnce() {
	entry := &domain.LedgerEntry{EntryID: "e-1", Kind: domain.Expense, Amount: dec("1200"), AssetID: "asset-1"}
	suite.entries.On("FindEntryByID", suite.ctx, "e-1").Return(entry, nil).Once()
	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("6800"), nil).Once()
	suite.uow.On("CommitRevert", suite.ctx, balanceIs("8000"), "e-1", fixedNow).Return(nil).Once()

	asset, err := suite.service.DeleteEntry(suite.ctx, "e-1", "user-1")
	suite.Require().NoError(err)
	suite.True(dec("8000").Equal(asset.Balance))
	suite.Equal(int64(4), asset.Version)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_AlreadyReverted() {
	reverted := fixedNow.Add(-time.Hour)
	entry := &domain.LedgerEntry{EntryID: "e-1", Kind: domain.Expense, Amount: dec("1200"), AssetID: "asset-1", RevertedAt: &reverted}
	suite.entries.On("FindEntryByID", suite.ctx, "e-1").Return(entry, nil).Once()
	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("8000"), nil).Once()

	_, err := suite.service.DeleteEntry(suite.ctx, "e-1", "user-1")
	suite.ErrorIs(err, apperrors.ErrDoubleRevert)
	suite.uow.AssertNotCalled(suite.T(), "CommitRevert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_ConcurrentRevertLosesInStore() {
	entry := &domain.LedgerEntry{EntryID: "e-1", Kind: domain.Income, Amount: dec("10"), AssetID: "asset-1"}
	suite.entries.On("FindEntryByID", suite.ctx, "e-1").Return(entry, nil).Once()
	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("5010"), nil).Once()
	suite.uow.On("CommitRevert", suite.ctx, balanceIs("5000"), "e-1", fixedNow).
		Return(fmt.Errorf("%w: entry e-1", apperrors.ErrDoubleRevert)).Once()

	_, err := suite.service.DeleteEntry(suite.ctx, "e-1", "user-1")
	suite.ErrorIs(err, apperrors.ErrDoubleRevert)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_PaymentEntryIsRejected() {
	debtID := "debt-1"
	entry := &domain.LedgerEntry{EntryID: "e-1", Kind: domain.Expense, Amount: dec("10"), AssetID: "asset-1", DebtID: &debtID, Category: domain.CategoryDebtPayment}
	suite.entries.On("FindEntryByID", suite.ctx, "e-1").Return(entry, nil).Once()
	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("5000"), nil).Once()

	_, err := suite.service.DeleteEntry(suite.ctx, "e-1", "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_UnknownEntry() {
	suite.entries.On("FindEntryByID", suite.ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.DeleteEntry(suite.ctx, "nope", "user-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestVerifyAssetBalance() {
	reverted := fixedNow
	entries := []domain.LedgerEntry{
		{EntryID: "a", Kind: domain.Income, Amount: dec("3000"), AssetID: "asset-1"},
		{EntryID: "b", Kind: domain.Expense, Amount: dec("1200"), AssetID: "asset-1"},
		{EntryID: "c", Kind: domain.Expense, Amount: dec("99"), AssetID: "asset-1", RevertedAt: &reverted},
	}

	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("6800"), nil).Once()
	suite.entries.On("ListEntriesByAsset", suite.ctx, "asset-1").Return(entries, nil).Once()

	check, err := suite.service.VerifyAssetBalance(suite.ctx, "asset-1", "user-1")
	suite.Require().NoError(err)
	suite.True(check.Consistent)
	suite.True(check.Drift.IsZero())
	suite.Equal(3, check.Entries)

	suite.assets.On("FindAssetByID", suite.ctx, "asset-1").Return(suite.checking("6900"), nil).Once()
	suite.entries.On("ListEntriesByAsset", suite.ctx, "asset-1").Return(entries, nil).Once()

	check, err = suite.service.VerifyAssetBalance(suite.ctx, "asset-1", "user-1")
	suite.Require().NoError(err)
	suite.False(check.Consistent)
	suite.True(dec("100").Equal(check.Drift))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
