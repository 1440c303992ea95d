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

const entryColumns = `entry_id, asset_id, kind, amount, category, description, debt_id,
	created_at, created_by, reverted_at`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a read-side repository for ledger entries.
// Entries are written only through the unit of work.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

func scanEntry(row rowScanner) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.AssetID,
		&m.Kind,
		&m.Amount,
		&m.Category,
		&m.Description,
		&m.DebtID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.RevertedAt,
	)
	return m, err
}

// FindEntryByID retrieves an entry, reverted or not.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, queryError(err, "ledger entry", entryID)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// ListEntriesByAsset returns every entry of the asset, oldest first.
func (r *PgxLedgerRepository) ListEntriesByAsset(ctx context.Context, assetID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries
		WHERE asset_id = $1
		ORDER BY created_at, entry_id;`

	rows, err := r.Pool.Query(ctx, query, assetID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list ledger entries", err)
	}
	defer rows.Close()

	var ms []models.LedgerEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

func insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.AssetID,
		m.Kind,
		m.Amount,
		m.Category,
		m.Description,
		m.DebtID,
		m.CreatedAt,
		m.CreatedBy,
		m.RevertedAt,
	)
	if err != nil {
		return insertError(err, "ledger entry", m.EntryID)
	}
	return nil
}

// tombstoneEntryTx sets reverted_at once. A second call affects no rows.
func tombstoneEntryTx(ctx context.Context, tx pgx.Tx, entryID string, at time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE ledger_entries SET reverted_at = $2 WHERE entry_id = $1 AND reverted_at IS NULL;`,
		entryID, at)
	if err != nil {
		return apperrors.NewAppError(500, "failed to revert ledger entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE entry_id = $1);`, entryID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check ledger entry "+entryID, err)
		}
		if !exists {
			return fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
		}
		return fmt.Errorf("%w: entry %s", apperrors.ErrDoubleRevert, entryID)
	}
	return nil
}
