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

const entryColumns = `entry_id, asset_id, kind, amount, category, description, debt_id,
	created_at, created_by, reverted_at`

func scanEntry(row rowScanner) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(&m.EntryID, &m.AssetID, &m.Kind, &m.Amount, &m.Category, &m.Description, &m.DebtID,
		&m.CreatedAt, &m.CreatedBy, &m.RevertedAt)
	return m, err
}

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	m, err := scanEntry(s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE entry_id = ?`, entryID))
	if err != nil {
		return nil, queryError(err, "ledger entry", entryID)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

func (s *Store) ListEntriesByAsset(ctx context.Context, assetID string) ([]domain.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE asset_id = ? ORDER BY created_at, entry_id`, assetID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list ledger entries", err)
	}
	defer rows.Close()

	var ms []models.LedgerEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entry rows: %w", err)
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

func insertEntryTx(ctx context.Context, tx *sql.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.EntryID, m.AssetID, m.Kind, m.Amount, m.Category, m.Description, m.DebtID,
		utc(m.CreatedAt), m.CreatedBy, utcNull(m.RevertedAt))
	if err != nil {
		return insertError(err, "ledger entry", m.EntryID)
	}
	return nil
}

func tombstoneEntryTx(ctx context.Context, tx *sql.Tx, entryID string, at time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE ledger_entries SET reverted_at = ? WHERE entry_id = ? AND reverted_at IS NULL`, utc(at), entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to revert ledger entry "+entryID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewAppError(500, "failed to revert ledger entry "+entryID, err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE entry_id = ?)`, entryID).Scan(&exists); err != nil {
		return apperrors.NewAppError(500, "failed to check ledger entry "+entryID, err)
	}
	if !exists {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
	}
	return fmt.Errorf("%w: entry %s", apperrors.ErrDoubleRevert, entryID)
}
