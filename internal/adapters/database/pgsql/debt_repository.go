package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/mma_ledger/internal/models"
	"github.com/SscSPs/mma_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const debtColumns = `debt_id, user_id, name, debt_type, balance, original_amount, interest_rate,
	minimum_payment, due_date, is_archived, archived_at,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxDebtRepository struct {
	BaseRepository
}

// newPgxDebtRepository creates a new repository for debt data.
func newPgxDebtRepository(pool *pgxpool.Pool) portsrepo.DebtRepositoryFacade {
	return &PgxDebtRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

func scanDebt(row rowScanner) (models.Debt, error) {
	var m models.Debt
	err := row.Scan(
		&m.DebtID,
		&m.UserID,
		&m.Name,
		&m.DebtType,
		&m.Balance,
		&m.OriginalAmount,
		&m.InterestRate,
		&m.MinimumPayment,
		&m.DueDate,
		&m.IsArchived,
		&m.ArchivedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	return m, err
}

// SaveDebt inserts a new debt.
func (r *PgxDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	m := mapping.ToModelDebt(debt)
	query := `INSERT INTO debts (` + debtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

	_, err := r.Pool.Exec(ctx, query,
		m.DebtID,
		m.UserID,
		m.Name,
		m.DebtType,
		m.Balance,
		m.OriginalAmount,
		m.InterestRate,
		m.MinimumPayment,
		m.DueDate,
		m.IsArchived,
		m.ArchivedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return insertError(err, "debt", m.DebtID)
	}
	return nil
}

// FindDebtByID retrieves a debt by its ID.
func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE debt_id = $1;`

	m, err := scanDebt(r.Pool.QueryRow(ctx, query, debtID))
	if err != nil {
		return nil, queryError(err, "debt", debtID)
	}
	debt := mapping.ToDomainDebt(m)
	return &debt, nil
}

// ListDebtsByUser returns the user's debts, optionally including archived ones.
func (r *PgxDebtRepository) ListDebtsByUser(ctx context.Context, userID string, includeArchived bool) ([]domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts
		WHERE user_id = $1 AND ($2 OR NOT is_archived)
		ORDER BY created_at, debt_id;`
	return r.list(ctx, query, userID, includeArchived)
}

// ListDebtsDueBefore returns active debts of every user due on or before the given time.
func (r *PgxDebtRepository) ListDebtsDueBefore(ctx context.Context, before time.Time) ([]domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts
		WHERE NOT is_archived AND balance > 0 AND due_date IS NOT NULL AND due_date <= $1
		ORDER BY due_date, debt_id;`
	return r.list(ctx, query, before)
}

func (r *PgxDebtRepository) list(ctx context.Context, query string, args ...any) ([]domain.Debt, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list debts", err)
	}
	defer rows.Close()

	var ms []models.Debt
	for rows.Next() {
		m, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debt rows: %w", err)
	}
	return mapping.ToDomainDebtSlice(ms), nil
}

func updateDebtTx(ctx context.Context, tx pgx.Tx, debt domain.Debt) error {
	m := mapping.ToModelDebt(debt)
	query := `
		UPDATE debts
		SET balance = $3, is_archived = $4, archived_at = $5,
		    last_updated_at = $6, last_updated_by = $7, version = version + 1
		WHERE debt_id = $1 AND version = $2;
	`
	return versionedUpdate(ctx, tx, "debt", m.DebtID, query,
		m.DebtID, m.Version, m.Balance, m.IsArchived, m.ArchivedAt, m.LastUpdatedAt, m.LastUpdatedBy)
}
