package dto

import (
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDebtRequest defines the data needed to register a debt.
// InterestRate is a monthly percentage. OriginalAmount defaults to Balance.
type CreateDebtRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	Type           domain.DebtType  `json:"type" binding:"required,oneof=credit_card personal_loan mortgage student_loan auto_loan other"`
	Balance        decimal.Decimal  `json:"balance" binding:"dgte0"`
	OriginalAmount *decimal.Decimal `json:"originalAmount" binding:"omitempty,dgte0"`
	InterestRate   decimal.Decimal  `json:"interestRate" binding:"dgte0"`
	MinimumPayment *decimal.Decimal `json:"minimumPayment" binding:"omitempty,dgte0"`
	DueDate        *time.Time       `json:"dueDate"`
}

// MakePaymentRequest defines a payment against a debt, funded from an asset.
type MakePaymentRequest struct {
	AssetID     string             `json:"assetID" binding:"required"`
	Amount      decimal.Decimal    `json:"amount" binding:"dgt0"`
	Type        domain.PaymentType `json:"type" binding:"required,oneof=regular extra interest_only"`
	Description string             `json:"description" binding:"max=255"`
}

// ToPaymentRecord converts the request into the record the core consumes.
func (r MakePaymentRequest) ToPaymentRecord(debtID string) domain.PaymentRecord {
	return domain.PaymentRecord{
		DebtID:      debtID,
		AssetID:     r.AssetID,
		Amount:      r.Amount,
		Type:        r.Type,
		Description: r.Description,
	}
}

// ListDebtsParams defines query parameters for listing debts.
type ListDebtsParams struct {
	IncludeArchived bool `form:"includeArchived,default=false"`
}

// DebtResponse defines the data returned for a debt.
type DebtResponse struct {
	DebtID         string          `json:"debtID"`
	Name           string          `json:"name"`
	Type           domain.DebtType `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	MinimumPayment decimal.Decimal `json:"minimumPayment"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	IsArchived     bool            `json:"isArchived"`
	ArchivedAt     *time.Time      `json:"archivedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
	Version        int64           `json:"version"`
}

// PaymentResponse is returned after a payment is committed.
type PaymentResponse struct {
	Debt    DebtResponse  `json:"debt"`
	Entry   EntryResponse `json:"entry"`
	Asset   AssetResponse `json:"asset"`
	PaidOff bool          `json:"paidOff"`
}

// ToDebtResponse converts a domain.Debt to DebtResponse DTO
func ToDebtResponse(d *domain.Debt) DebtResponse {
	return DebtResponse{
		DebtID:         d.DebtID,
		Name:           d.Name,
		Type:           d.Type,
		Balance:        d.Balance,
		OriginalAmount: d.OriginalAmount,
		InterestRate:   d.InterestRate,
		MinimumPayment: d.MinimumPayment,
		DueDate:        d.DueDate,
		IsArchived:     d.IsArchived,
		ArchivedAt:     d.ArchivedAt,
		CreatedAt:      d.CreatedAt,
		LastUpdatedAt:  d.LastUpdatedAt,
		Version:        d.Version,
	}
}

// ToListDebtResponse converts a slice of domain.Debt to DebtResponse DTOs
func ToListDebtResponse(debts []domain.Debt) []DebtResponse {
	res := make([]DebtResponse, len(debts))
	for i := range debts {
		res[i] = ToDebtResponse(&debts[i])
	}
	return res
}

// ToPaymentResponse converts a committed payment result.
func ToPaymentResponse(r *domain.PaymentResult) PaymentResponse {
	return PaymentResponse{
		Debt:    ToDebtResponse(&r.Debt),
		Entry:   ToEntryResponse(&r.Entry),
		Asset:   ToAssetResponse(&r.Asset),
		PaidOff: r.Debt.IsArchived,
	}
}
