package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/models"
	"github.com/SscSPs/mma_ledger/internal/utils/mapping"
)

const debtColumns = `debt_id, user_id, name, debt_type, balance, original_amount, interest_rate,
	minimum_payment, due_date, is_archived, archived_at,
	created_at, created_by, last_updated_at, last_updated_by, version`

func scanDebt(row rowScanner) (models.Debt, error) {
	var m models.Debt
	err := row.Scan(&m.DebtID, &m.UserID, &m.Name, &m.DebtType, &m.Balance, &m.OriginalAmount, &m.InterestRate,
		&m.MinimumPayment, &m.DueDate, &m.IsArchived, &m.ArchivedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version)
	return m, err
}

func (s *Store) SaveDebt(ctx context.Context, debt domain.Debt) error {
	m := mapping.ToModelDebt(debt)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debts (`+debtColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.DebtID, m.UserID, m.Name, m.DebtType, m.Balance, m.OriginalAmount, m.InterestRate,
		m.MinimumPayment, utcNull(m.DueDate), m.IsArchived, utcNull(m.ArchivedAt),
		utc(m.CreatedAt), m.CreatedBy, utc(m.LastUpdatedAt), m.LastUpdatedBy, m.Version)
	if err != nil {
		return insertError(err, "debt", m.DebtID)
	}
	return nil
}

func (s *Store) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	m, err := scanDebt(s.db.QueryRowContext(ctx, `SELECT `+debtColumns+` FROM debts WHERE debt_id = ?`, debtID))
	if err != nil {
		return nil, queryError(err, "debt", debtID)
	}
	debt := mapping.ToDomainDebt(m)
	return &debt, nil
}

func (s *Store) ListDebtsByUser(ctx context.Context, userID string, includeArchived bool) ([]domain.Debt, error) {
	return s.listDebts(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE user_id = ? AND (? OR is_archived = 0) ORDER BY created_at, debt_id`,
		userID, includeArchived)
}

func (s *Store) ListDebtsDueBefore(ctx context.Context, before time.Time) ([]domain.Debt, error) {
	// balance is text, so the positive check happens after mapping
	debts, err := s.listDebts(ctx,
		`SELECT `+debtColumns+` FROM debts
		 WHERE is_archived = 0 AND due_date IS NOT NULL AND due_date <= ?
		 ORDER BY due_date, debt_id`,
		utc(before))
	if err != nil {
		return nil, err
	}
	active := debts[:0]
	for _, d := range debts {
		if d.IsActive() {
			active = append(active, d)
		}
	}
	return active, nil
}

func (s *Store) listDebts(ctx context.Context, query string, args ...any) ([]domain.Debt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list debts", err)
	}
	defer rows.Close()

	var ms []models.Debt
	for rows.Next() {
		m, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debt rows: %w", err)
	}
	return mapping.ToDomainDebtSlice(ms), nil
}

func updateDebtTx(ctx context.Context, tx *sql.Tx, debt domain.Debt) error {
	m := mapping.ToModelDebt(debt)
	return versionedUpdate(ctx, tx, "debt", m.DebtID,
		`UPDATE debts SET balance = ?, is_archived = ?, archived_at = ?, last_updated_at = ?, last_updated_by = ?,
		 version = version + 1
		 WHERE debt_id = ? AND version = ?`,
		m.Balance, m.IsArchived, utcNull(m.ArchivedAt), utc(m.LastUpdatedAt), m.LastUpdatedBy, m.DebtID, m.Version)
}
