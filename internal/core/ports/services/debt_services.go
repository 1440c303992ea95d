package services

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/dto"
)

// DebtReaderSvc defines read operations for debts
type DebtReaderSvc interface {
	GetDebt(ctx context.Context, debtID string, userID string) (*domain.Debt, error)
	ListDebts(ctx context.Context, userID string, includeArchived bool) ([]domain.Debt, error)
}

// DebtWriterSvc defines write operations for debts
type DebtWriterSvc interface {
	CreateDebt(ctx context.Context, req dto.CreateDebtRequest, userID string) (*domain.Debt, error)

	// MakePayment applies a payment to a debt and books the expense on the
	// funding asset in one unit of work.
	MakePayment(ctx context.Context, record domain.PaymentRecord, userID string) (*domain.PaymentResult, error)
}

// DebtSvcFacade combines all debt-related service interfaces
type DebtSvcFacade interface {
	DebtReaderSvc
	DebtWriterSvc
}
