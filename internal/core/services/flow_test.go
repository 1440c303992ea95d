package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/mma_ledger/internal/adapters/memory"
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerFlow_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	container := services.NewServiceContainer(store.Provider(), nil)

	asset, err := container.Ledger.CreateAsset(ctx, dto.CreateAssetRequest{Name: "Checking", Type: domain.AssetBankAccount, InitialBalance: dec("5000")}, "user-1")
	require.NoError(t, err)

	income, after, err := container.Ledger.RecordEntry(ctx, asset.AssetID, dto.RecordEntryRequest{Kind: domain.Income, Amount: dec("3000")}, "user-1")
	require.NoError(t, err)
	assert.True(t, dec("8000").Equal(after.Balance))

	expense, after, err := container.Ledger.RecordEntry(ctx, asset.AssetID, dto.RecordEntryRequest{Kind: domain.Expense, Amount: dec("1200")}, "user-1")
	require.NoError(t, err)
	assert.True(t, dec("6800").Equal(after.Balance))

	after, err = container.Ledger.DeleteEntry(ctx, expense.EntryID, "user-1")
	require.NoError(t, err)
	assert.True(t, dec("8000").Equal(after.Balance))

	after, err = container.Ledger.DeleteEntry(ctx, income.EntryID, "user-1")
	require.NoError(t, err)
	assert.True(t, dec("5000").Equal(after.Balance))
	assert.Equal(t, int64(5), after.Version)

	_, err = container.Ledger.DeleteEntry(ctx, income.EntryID, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrDoubleRevert)

	stored, err := container.Ledger.GetAsset(ctx, asset.AssetID, "user-1")
	require.NoError(t, err)
	assert.True(t, dec("5000").Equal(stored.Balance))

	check, err := container.Ledger.VerifyAssetBalance(ctx, asset.AssetID, "user-1")
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, 2, check.Entries)
}

func TestPaymentFlow_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n domain.Notice) bool {
		return n.Severity == domain.SeverityInfo
	})).Return(nil).Once()
	container := services.NewServiceContainer(store.Provider(), notifier)

	asset, err := container.Ledger.CreateAsset(ctx, dto.CreateAssetRequest{Name: "Checking", Type: domain.AssetBankAccount, InitialBalance: dec("2000")}, "user-1")
	require.NoError(t, err)
	debt, err := container.Debt.CreateDebt(ctx, dto.CreateDebtRequest{Name: "Visa", Type: domain.DebtCreditCard, Balance: dec("500"), InterestRate: dec("2")}, "user-1")
	require.NoError(t, err)

	first, err := container.Debt.MakePayment(ctx, domain.PaymentRecord{DebtID: debt.DebtID, AssetID: asset.AssetID, Amount: dec("200"), Type: domain.PaymentRegular}, "user-1")
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(first.Debt.Balance))
	assert.True(t, dec("1800").Equal(first.Asset.Balance))

	second, err := container.Debt.MakePayment(ctx, domain.PaymentRecord{DebtID: debt.DebtID, AssetID: asset.AssetID, Amount: dec("450"), Type: domain.PaymentExtra}, "user-1")
	require.NoError(t, err)
	assert.True(t, second.Debt.IsArchived)
	assert.True(t, second.Debt.Balance.IsZero())
	assert.True(t, dec("1350").Equal(second.Asset.Balance))

	_, err = container.Debt.MakePayment(ctx, domain.PaymentRecord{DebtID: debt.DebtID, AssetID: asset.AssetID, Amount: dec("1"), Type: domain.PaymentRegular}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation, "archived debts take no payments")

	_, err = container.Ledger.DeleteEntry(ctx, first.Entry.EntryID, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	active, err := container.Debt.ListDebts(ctx, "user-1", false)
	require.NoError(t, err)
	assert.Empty(t, active)

	check, err := container.Ledger.VerifyAssetBalance(ctx, asset.AssetID, "user-1")
	require.NoError(t, err)
	assert.True(t, check.Consistent)

	notifier.AssertExpectations(t)
}
