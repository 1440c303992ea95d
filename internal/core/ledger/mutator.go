// Package ledger keeps asset balances consistent with income and expense
// entries, including the one-time reversal of a deleted entry.
package ledger

import (
	"fmt"
	"sync"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/money"
	"github.com/shopspring/decimal"
)

// BalanceMutator applies and reverts entry amounts on an asset balance.
// It never persists anything: every method returns the updated asset and the
// caller saves it. Reverts are tracked by entry id so the same entry can only
// be reverted once.
type BalanceMutator struct {
	mu       sync.Mutex
	reverted map[string]struct{}
}

// NewBalanceMutator creates a mutator. Ids of entries already reverted in
// storage can be passed to seed the revert guard.
func NewBalanceMutator(revertedEntryIDs ...string) *BalanceMutator {
	m := &BalanceMutator{reverted: make(map[string]struct{}, len(revertedEntryIDs))}
	m.MarkReverted(revertedEntryIDs...)
	return m
}

// MarkReverted records entries as already reverted without touching a balance.
func (m *BalanceMutator) MarkReverted(entryIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range entryIDs {
		m.reverted[id] = struct{}{}
	}
}

// IsReverted reports whether entryID has been reverted through this mutator
// or marked as such.
func (m *BalanceMutator) IsReverted(entryID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.reverted[entryID]
	return ok
}

// ApplyIncome adds amount to the asset balance. Zero is a valid no-op.
func (m *BalanceMutator) ApplyIncome(asset domain.Asset, amount decimal.Decimal) (domain.Asset, error) {
	amount, err := boundaryAmount(amount)
	if err != nil {
		return asset, err
	}
	asset.Balance = asset.Balance.Add(amount)
	return asset, nil
}

// ApplyExpense subtracts amount from the asset balance. The balance may go
// negative; overdraft is a legitimate state for cards and bank accounts.
func (m *BalanceMutator) ApplyExpense(asset domain.Asset, amount decimal.Decimal) (domain.Asset, error) {
	amount, err := boundaryAmount(amount)
	if err != nil {
		return asset, err
	}
	asset.Balance = asset.Balance.Sub(amount)
	return asset, nil
}

// RevertIncome undoes an applied income entry.
func (m *BalanceMutator) RevertIncome(asset domain.Asset, entryID string, amount decimal.Decimal) (domain.Asset, error) {
	return m.revert(asset, entryID, amount, m.ApplyExpense)
}

// RevertExpense undoes an applied expense entry.
func (m *BalanceMutator) RevertExpense(asset domain.Asset, entryID string, amount decimal.Decimal) (domain.Asset, error) {
	return m.revert(asset, entryID, amount, m.ApplyIncome)
}

// ApplyEntry applies entry to asset according to its kind.
func (m *BalanceMutator) ApplyEntry(asset domain.Asset, entry domain.LedgerEntry) (domain.Asset, error) {
	if err := checkEntry(asset, entry); err != nil {
		return asset, err
	}
	if entry.IsReverted() || m.IsReverted(entry.EntryID) {
		return asset, fmt.Errorf("%w: cannot apply reverted entry %s", apperrors.ErrValidation, entry.EntryID)
	}
	if entry.Kind == domain.Income {
		return m.ApplyIncome(asset, entry.Amount)
	}
	return m.ApplyExpense(asset, entry.Amount)
}

// RevertEntry reverts entry on asset according to its kind. The amount used is
// the one stored on the entry, which is exactly what was applied.
func (m *BalanceMutator) RevertEntry(asset domain.Asset, entry domain.LedgerEntry) (domain.Asset, error) {
	if err := checkEntry(asset, entry); err != nil {
		return asset, err
	}
	if entry.IsReverted() {
		m.MarkReverted(entry.EntryID)
	}
	if entry.Kind == domain.Income {
		return m.RevertIncome(asset, entry.EntryID, entry.Amount)
	}
	return m.RevertExpense(asset, entry.EntryID, entry.Amount)
}

func (m *BalanceMutator) revert(asset domain.Asset, entryID string, amount decimal.Decimal, inverse func(domain.Asset, decimal.Decimal) (domain.Asset, error)) (domain.Asset, error) {
	if entryID == "" {
		return asset, fmt.Errorf("%w: entry id is required to revert", apperrors.ErrValidation)
	}

	// Hold the lock across check and mark so two concurrent reverts of the same
	// entry cannot both pass.
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, done := m.reverted[entryID]; done {
		return asset, fmt.Errorf("%w: entry %s", apperrors.ErrDoubleRevert, entryID)
	}

	updated, err := inverse(asset, amount)
	if err != nil {
		return asset, err
	}
	m.reverted[entryID] = struct{}{}
	return updated, nil
}

// Reconcile recomputes what an asset balance must be from its initial balance
// and all of its entries. Reverted entries are skipped.
func Reconcile(initial decimal.Decimal, entries []domain.LedgerEntry) decimal.Decimal {
	balance := initial
	for _, e := range entries {
		if e.IsReverted() {
			continue
		}
		balance = balance.Add(money.Round(e.Amount).Mul(sign(e.Kind)))
	}
	return balance
}

func sign(k domain.EntryKind) decimal.Decimal {
	if k == domain.Expense {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

func boundaryAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := money.RequireNonNegative("amount", amount); err != nil {
		return decimal.Zero, err
	}
	return money.Round(amount), nil
}

func checkEntry(asset domain.Asset, entry domain.LedgerEntry) error {
	if !entry.Kind.IsValid() {
		return fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, entry.Kind)
	}
	if entry.AssetID != asset.AssetID {
		return fmt.Errorf("%w: entry %s belongs to asset %s, not %s", apperrors.ErrValidation, entry.EntryID, entry.AssetID, asset.AssetID)
	}
	return nil
}
