// Package payment turns a debt payment into the coordinated set of changes
// that must be committed together.
package payment

import (
	"fmt"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/ledger"
	"github.com/SscSPs/mma_ledger/internal/core/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recorder builds PaymentResults. It does not persist anything.
type Recorder struct {
	mutator *ledger.BalanceMutator
	now     func() time.Time
	newID   func() string
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the time source used for archive and entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithIDGenerator overrides how entry ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(r *Recorder) { r.newID = newID }
}

// NewRecorder creates a Recorder that books entries through mutator.
func NewRecorder(mutator *ledger.BalanceMutator, opts ...Option) *Recorder {
	if mutator == nil {
		mutator = ledger.NewBalanceMutator()
	}
	r := &Recorder{
		mutator: mutator,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MakePayment applies record to debt and books the matching expense on asset.
// The debt balance never drops below zero; a debt reaching zero is archived.
// The expense entry is always for the full amount paid.
func (r *Recorder) MakePayment(debt domain.Debt, asset domain.Asset, record domain.PaymentRecord) (domain.PaymentResult, error) {
	if err := validate(debt, asset, record); err != nil {
		return domain.PaymentResult{}, err
	}

	now := r.now()
	amount := money.Round(record.Amount)

	debt.Balance = decimal.Max(decimal.Zero, debt.Balance.Sub(amount))
	if debt.Balance.IsZero() {
		debt.Archive(now)
	}
	debt.Touch(debt.UserID, now)

	description := record.Description
	if description == "" {
		description = fmt.Sprintf("Pago %s - %s", record.Type, debt.Name)
	}
	debtID := debt.DebtID
	entry := domain.LedgerEntry{
		EntryID:     r.newID(),
		Kind:        domain.Expense,
		Amount:      amount,
		AssetID:     asset.AssetID,
		Category:    domain.CategoryDebtPayment,
		Description: description,
		DebtID:      &debtID,
		CreatedAt:   now,
		CreatedBy:   debt.LastUpdatedBy,
	}

	updated, err := r.mutator.ApplyEntry(asset, entry)
	if err != nil {
		return domain.PaymentResult{}, err
	}
	updated.Touch(entry.CreatedBy, now)

	return domain.PaymentResult{Debt: debt, Entry: entry, Asset: updated}, nil
}

func validate(debt domain.Debt, asset domain.Asset, record domain.PaymentRecord) error {
	if err := money.RequirePositive("payment amount", record.Amount); err != nil {
		return err
	}
	if !money.Round(record.Amount).IsPositive() {
		return fmt.Errorf("%w: payment amount rounds to zero", apperrors.ErrValidation)
	}
	if !record.Type.IsValid() {
		return fmt.Errorf("%w: unknown payment type %q", apperrors.ErrValidation, record.Type)
	}
	if record.DebtID != "" && record.DebtID != debt.DebtID {
		return fmt.Errorf("%w: payment is for debt %s, not %s", apperrors.ErrValidation, record.DebtID, debt.DebtID)
	}
	if record.AssetID != "" && record.AssetID != asset.AssetID {
		return fmt.Errorf("%w: payment is funded from asset %s, not %s", apperrors.ErrValidation, record.AssetID, asset.AssetID)
	}
	if debt.IsArchived {
		return fmt.Errorf("%w: debt %s is already paid off", apperrors.ErrValidation, debt.DebtID)
	}
	if debt.UserID != "" && asset.UserID != "" && debt.UserID != asset.UserID {
		return fmt.Errorf("%w: asset %s does not belong to the debt owner", apperrors.ErrValidation, asset.AssetID)
	}
	return nil
}
