// Package memory holds the stores in process memory. It is used by tests and
// by local runs without a database, and applies the same version checks as
// the SQL stores.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
)

type Store struct {
	mu      sync.RWMutex
	assets  map[string]domain.Asset
	debts   map[string]domain.Debt
	entries map[string]domain.LedgerEntry
	seq     map[string]int // Insertion order of entries, used as a tie-break
	next    int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		assets:  make(map[string]domain.Asset),
		debts:   make(map[string]domain.Debt),
		entries: make(map[string]domain.LedgerEntry),
		seq:     make(map[string]int),
	}
}

// Provider exposes the store through the repository ports.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AssetRepo:  s,
		DebtRepo:   s,
		LedgerRepo: s,
		UnitOfWork: s,
	}
}

var (
	_ portsrepo.AssetRepositoryFacade = (*Store)(nil)
	_ portsrepo.DebtRepositoryFacade  = (*Store)(nil)
	_ portsrepo.LedgerReader          = (*Store)(nil)
	_ portsrepo.UnitOfWork            = (*Store)(nil)
)

func (s *Store) SaveAsset(_ context.Context, asset domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[asset.AssetID]; exists {
		return fmt.Errorf("%w: asset %s already exists", apperrors.ErrConflict, asset.AssetID)
	}
	s.assets[asset.AssetID] = asset
	return nil
}

func (s *Store) FindAssetByID(_ context.Context, assetID string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, ok := s.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, assetID)
	}
	return &asset, nil
}

func (s *Store) ListAssetsByUser(_ context.Context, userID string) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Asset
	for _, a := range s.assets {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].AssetID < out[j].AssetID
	})
	return out, nil
}

func (s *Store) SaveDebt(_ context.Context, debt domain.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.debts[debt.DebtID]; exists {
		return fmt.Errorf("%w: debt %s already exists", apperrors.ErrConflict, debt.DebtID)
	}
	s.debts[debt.DebtID] = debt
	return nil
}

func (s *Store) FindDebtByID(_ context.Context, debtID string) (*domain.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debt, ok := s.debts[debtID]
	if !ok {
		return nil, fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
	}
	return &debt, nil
}

func (s *Store) ListDebtsByUser(_ context.Context, userID string, includeArchived bool) ([]domain.Debt, error) {
	return s.filterDebts(func(d domain.Debt) bool {
		return d.UserID == userID && (includeArchived || !d.IsArchived)
	}, func(a, b domain.Debt) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.DebtID < b.DebtID
	}), nil
}

func (s *Store) ListDebtsDueBefore(_ context.Context, before time.Time) ([]domain.Debt, error) {
	return s.filterDebts(func(d domain.Debt) bool {
		return d.IsActive() && d.DueDate != nil && !d.DueDate.After(before)
	}, func(a, b domain.Debt) bool {
		if !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.DebtID < b.DebtID
	}), nil
}

func (s *Store) filterDebts(keep func(domain.Debt) bool, less func(a, b domain.Debt) bool) []domain.Debt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Debt
	for _, d := range s.debts {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (s *Store) FindEntryByID(_ context.Context, entryID string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
	}
	return &entry, nil
}

func (s *Store) ListEntriesByAsset(_ context.Context, assetID string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.AssetID == assetID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return s.seq[out[i].EntryID] < s.seq[out[j].EntryID]
	})
	return out, nil
}

// CommitEntry checks every precondition before writing anything.
func (s *Store) CommitEntry(_ context.Context, asset domain.Asset, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAsset(asset); err != nil {
		return err
	}
	if err := s.checkNewEntry(entry); err != nil {
		return err
	}
	s.putAsset(asset)
	s.putEntry(entry)
	return nil
}

func (s *Store) CommitRevert(_ context.Context, asset domain.Asset, entryID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
	}
	if entry.IsReverted() {
		return fmt.Errorf("%w: entry %s", apperrors.ErrDoubleRevert, entryID)
	}
	if err := s.checkAsset(asset); err != nil {
		return err
	}

	entry.RevertedAt = &at
	s.entries[entryID] = entry
	s.putAsset(asset)
	return nil
}

func (s *Store) CommitPayment(_ context.Context, result domain.PaymentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.debts[result.Debt.DebtID]
	if !ok {
		return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, result.Debt.DebtID)
	}
	if stored.Version != result.Debt.Version {
		return fmt.Errorf("%w: debt %s was modified concurrently", apperrors.ErrConflict, result.Debt.DebtID)
	}
	if err := s.checkNewEntry(result.Entry); err != nil {
		return err
	}
	if err := s.checkAsset(result.Asset); err != nil {
		return err
	}

	debt := result.Debt
	debt.Version++
	s.debts[debt.DebtID] = debt
	s.putEntry(result.Entry)
	s.putAsset(result.Asset)
	return nil
}

func (s *Store) checkAsset(asset domain.Asset) error {
	stored, ok := s.assets[asset.AssetID]
	if !ok {
		return fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, asset.AssetID)
	}
	if stored.Version != asset.Version {
		return fmt.Errorf("%w: asset %s was modified concurrently", apperrors.ErrConflict, asset.AssetID)
	}
	return nil
}

func (s *Store) checkNewEntry(entry domain.LedgerEntry) error {
	if _, exists := s.entries[entry.EntryID]; exists {
		return fmt.Errorf("%w: ledger entry %s already exists", apperrors.ErrConflict, entry.EntryID)
	}
	if _, ok := s.assets[entry.AssetID]; !ok {
		return fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, entry.AssetID)
	}
	return nil
}

// putAsset stores only the columns a commit may change, like the SQL stores.
func (s *Store) putAsset(asset domain.Asset) {
	stored := s.assets[asset.AssetID]
	stored.Balance = asset.Balance
	stored.LastUpdatedAt = asset.LastUpdatedAt
	stored.LastUpdatedBy = asset.LastUpdatedBy
	stored.Version++
	s.assets[asset.AssetID] = stored
}

func (s *Store) putEntry(entry domain.LedgerEntry) {
	s.next++
	s.seq[entry.EntryID] = s.next
	s.entries[entry.EntryID] = entry
}
