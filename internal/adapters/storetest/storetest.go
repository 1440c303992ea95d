// Package storetest holds the behaviour every repository adapter must share.
// Adapter packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a provider backed by an empty store.
type Factory func(t *testing.T) portsrepo.RepositoryProvider

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func audit(userID string, at time.Time) domain.AuditFields {
	return domain.AuditFields{CreatedAt: at, CreatedBy: userID, LastUpdatedAt: at, LastUpdatedBy: userID, Version: 1}
}

func newAsset(id, userID, name, balance string) domain.Asset {
	return domain.Asset{
		AssetID:        id,
		UserID:         userID,
		Name:           name,
		Type:           domain.AssetBankAccount,
		InitialBalance: dec(balance),
		Balance:        dec(balance),
		AuditFields:    audit(userID, base),
	}
}

func newDebt(id, userID, balance string, created time.Time) domain.Debt {
	return domain.Debt{
		DebtID:         id,
		UserID:         userID,
		Name:           "Debt " + id,
		Type:           domain.DebtCreditCard,
		Balance:        dec(balance),
		OriginalAmount: dec(balance),
		InterestRate:   dec("2.5"),
		AuditFields:    audit(userID, created),
	}
}

func newEntry(id, assetID string, kind domain.EntryKind, amount string, at time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:   id,
		Kind:      kind,
		Amount:    dec(amount),
		AssetID:   assetID,
		Category:  "general",
		CreatedAt: at,
		CreatedBy: "user-1",
	}
}

// Run executes the shared contract against stores built by newProvider.
func Run(t *testing.T, newProvider Factory) {
	t.Run("AssetRoundTrip", func(t *testing.T) { testAssetRoundTrip(t, newProvider(t)) })
	t.Run("CommitEntryChecksVersion", func(t *testing.T) { testCommitEntry(t, newProvider(t)) })
	t.Run("CommitRevertOnce", func(t *testing.T) { testCommitRevert(t, newProvider(t)) })
	t.Run("CommitPaymentIsAtomic", func(t *testing.T) { testCommitPayment(t, newProvider(t)) })
	t.Run("DebtListings", func(t *testing.T) { testDebtListings(t, newProvider(t)) })
}

func testAssetRoundTrip(t *testing.T, p portsrepo.RepositoryProvider) {
	ctx := context.Background()
	threshold := dec("150.25")
	a := newAsset("a-1", "user-1", "Savings", "5000")
	a.AlertThreshold = &threshold

	require.NoError(t, p.AssetRepo.SaveAsset(ctx, a))
	require.NoError(t, p.AssetRepo.SaveAsset(ctx, newAsset("a-2", "user-1", "Cash", "10")))
	require.NoError(t, p.AssetRepo.SaveAsset(ctx, newAsset("a-3", "user-2", "Other", "10")))

	got, err := p.AssetRepo.FindAssetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Savings", got.Name)
	assert.True(t, dec("5000").Equal(got.Balance))
	assert.Equal(t, int64(1), got.Version)
	assert.True(t, base.Equal(got.CreatedAt))
	require.NotNil(t, got.AlertThreshold)
	assert.True(t, threshold.Equal(*got.AlertThreshold))

	list, err := p.AssetRepo.ListAssetsByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cash", list[0].Name)
	assert.Nil(t, list[0].AlertThreshold)

	_, err = p.AssetRepo.FindAssetByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = p.AssetRepo.SaveAsset(ctx, a)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func testCommitEntry(t *testing.T, p portsrepo.RepositoryProvider) {
	ctx := context.Background()
	a := newAsset("a-1", "user-1", "Checking", "5000")
	require.NoError(t, p.AssetRepo.SaveAsset(ctx, a))

	a.Balance = dec("8000")
	first := newEntry("e-1", "a-1", domain.Income, "3000", base.Add(time.Minute))
	require.NoError(t, p.UnitOfWork.CommitEntry(ctx, a, first))

	stored, err := p.AssetRepo.FindAssetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.True(t, dec("8000").Equal(stored.Balance))
	assert.Equal(t, int64(2), stored.Version)

	// a still carries version 1
	a.Balance = dec("7000")
	err = p.UnitOfWork.CommitEntry(ctx, a, newEntry("e-2", "a-1", domain.Expense, "1000", base.Add(2*time.Minute)))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	entries, err := p.LedgerRepo.ListEntriesByAsset(ctx, "a-1")
	require.NoError(t, err)
	require.Len(t, entries, 1, "rejected commit must not leave its entry behind")
	assert.Equal(t, "e-1", entries[0].EntryID)

	stored.Balance = dec("6800")
	require.NoError(t, p.UnitOfWork.CommitEntry(ctx, *stored, newEntry("e-3", "a-1", domain.Expense, "1200", base.Add(3*time.Minute))))

	entries, err = p.LedgerRepo.ListEntriesByAsset(ctx, "a-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"e-1", "e-3"}, []string{entries[0].EntryID, entries[1].EntryID})
	assert.True(t, dec("1200").Equal(entries[1].Amount))
	assert.Nil(t, entries[1].RevertedAt)

	_, err = p.LedgerRepo.FindEntryByID(ctx, "e-2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testCommitRevert(t *testing.T, p portsrepo.RepositoryProvider) {
	ctx := context.Background()
	a := newAsset("a-1", "user-1", "Checking", "8000")
	require.NoError(t, p.AssetRepo.SaveAsset(ctx, a))
	a.Balance = dec("6800")
	require.NoError(t, p.UnitOfWork.CommitEntry(ctx, a, newEntry("e-1", "a-1", domain.Expense, "1200", base)))

	stored, err := p.AssetRepo.FindAssetByID(ctx, "a-1")
	require.NoError(t, err)
	stored.Balance = dec("8000")
	at := base.Add(time.Hour)
	require.NoError(t, p.UnitOfWork.CommitRevert(ctx, *stored, "e-1", at))

	entry, err := p.LedgerRepo.FindEntryByID(ctx, "e-1")
	require.NoError(t, err)
	require.NotNil(t, entry.RevertedAt)
	assert.True(t, at.Equal(*entry.RevertedAt))

	again, err := p.AssetRepo.FindAssetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.True(t, dec("8000").Equal(again.Balance))
	assert.Equal(t, int64(3), again.Version)

	again.Balance = dec("9200")
	err = p.UnitOfWork.CommitRevert(ctx, *again, "e-1", at.Add(time.Minute))
	assert.ErrorIs(t, err, apperrors.ErrDoubleRevert)

	final, err := p.AssetRepo.FindAssetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.True(t, dec("8000").Equal(final.Balance), "double revert must not touch the balance")
	assert.Equal(t, int64(3), final.Version)

	err = p.UnitOfWork.CommitRevert(ctx, *final, "missing", at)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testCommitPayment(t *testing.T, p portsrepo.RepositoryProvider) {
	ctx := context.Background()
	a := newAsset("a-1", "user-1", "Checking", "2000")
	d := newDebt("d-1", "user-1", "500", base)
	require.NoError(t, p.AssetRepo.SaveAsset(ctx, a))
	require.NoError(t, p.DebtRepo.SaveDebt(ctx, d))

	debtID := d.DebtID
	entry := newEntry("e-1", "a-1", domain.Expense, "500", base.Add(time.Minute))
	entry.DebtID = &debtID
	entry.Category = domain.CategoryDebtPayment

	d.Balance = decimal.Zero
	d.Archive(base.Add(time.Minute))
	a.Balance = dec("1500")

	stale := a
	stale.Version = 9
	err := p.UnitOfWork.CommitPayment(ctx, domain.PaymentResult{Debt: d, Entry: entry, Asset: stale})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	unchanged, err := p.DebtRepo.FindDebtByID(ctx, "d-1")
	require.NoError(t, err)
	assert.True(t, dec("500").Equal(unchanged.Balance))
	assert.False(t, unchanged.IsArchived)
	assert.Equal(t, int64(1), unchanged.Version)
	_, err = p.LedgerRepo.FindEntryByID(ctx, "e-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, p.UnitOfWork.CommitPayment(ctx, domain.PaymentResult{Debt: d, Entry: entry, Asset: a}))

	paid, err := p.DebtRepo.FindDebtByID(ctx, "d-1")
	require.NoError(t, err)
	assert.True(t, paid.Balance.IsZero())
	assert.True(t, paid.IsArchived)
	require.NotNil(t, paid.ArchivedAt)
	assert.Equal(t, int64(2), paid.Version)

	stored, err := p.LedgerRepo.FindEntryByID(ctx, "e-1")
	require.NoError(t, err)
	require.NotNil(t, stored.DebtID)
	assert.Equal(t, "d-1", *stored.DebtID)

	funded, err := p.AssetRepo.FindAssetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.True(t, dec("1500").Equal(funded.Balance))
	assert.Equal(t, int64(2), funded.Version)
}

func testDebtListings(t *testing.T, p portsrepo.RepositoryProvider) {
	ctx := context.Background()
	due := func(days int) *time.Time {
		at := base.Add(time.Duration(days) * 24 * time.Hour)
		return &at
	}

	soon := newDebt("d-soon", "user-1", "100", base)
	soon.DueDate = due(2)
	later := newDebt("d-later", "user-1", "100", base.Add(time.Second))
	later.DueDate = due(30)
	archived := newDebt("d-archived", "user-1", "0", base.Add(2*time.Second))
	archived.DueDate = due(1)
	archived.Archive(base)
	other := newDebt("d-other", "user-2", "100", base.Add(3*time.Second))
	other.DueDate = due(1)
	undated := newDebt("d-undated", "user-1", "100", base.Add(4*time.Second))

	for _, d := range []domain.Debt{soon, later, archived, other, undated} {
		require.NoError(t, p.DebtRepo.SaveDebt(ctx, d))
	}

	active, err := p.DebtRepo.ListDebtsByUser(ctx, "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"d-soon", "d-later", "d-undated"}, debtIDs(active))

	all, err := p.DebtRepo.ListDebtsByUser(ctx, "user-1", true)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	dueSoon, err := p.DebtRepo.ListDebtsDueBefore(ctx, base.Add(7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"d-other", "d-soon"}, debtIDs(dueSoon))
	require.NotNil(t, dueSoon[1].DueDate)
	assert.True(t, soon.DueDate.Equal(*dueSoon[1].DueDate))

	_, err = p.DebtRepo.FindDebtByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func debtIDs(debts []domain.Debt) []string {
	ids := make([]string, len(debts))
	for i, d := range debts {
		ids[i] = d.DebtID
	}
	return ids
}
