package mapping

import (
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/models"
)

// ToModelDebt converts a domain Debt to a model Debt
func ToModelDebt(d domain.Debt) models.Debt {
	return models.Debt{
		DebtID:         d.DebtID,
		UserID:         d.UserID,
		Name:           d.Name,
		DebtType:       models.DebtType(d.Type),
		Balance:        d.Balance,
		OriginalAmount: d.OriginalAmount,
		InterestRate:   d.InterestRate,
		MinimumPayment: d.MinimumPayment,
		DueDate:        toNullTime(d.DueDate),
		IsArchived:     d.IsArchived,
		ArchivedAt:     toNullTime(d.ArchivedAt),
		AuditFields:    toModelAudit(d.AuditFields),
	}
}

// ToDomainDebt converts a model Debt to a domain Debt
func ToDomainDebt(m models.Debt) domain.Debt {
	return domain.Debt{
		DebtID:         m.DebtID,
		UserID:         m.UserID,
		Name:           m.Name,
		Type:           domain.DebtType(m.DebtType),
		Balance:        m.Balance,
		OriginalAmount: m.OriginalAmount,
		InterestRate:   m.InterestRate,
		MinimumPayment: m.MinimumPayment,
		DueDate:        fromNullTime(m.DueDate),
		IsArchived:     m.IsArchived,
		ArchivedAt:     fromNullTime(m.ArchivedAt),
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}

// ToDomainDebtSlice converts a slice of model Debts to a slice of domain Debts
func ToDomainDebtSlice(ms []models.Debt) []domain.Debt {
	ds := make([]domain.Debt, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDebt(m)
	}
	return ds
}
