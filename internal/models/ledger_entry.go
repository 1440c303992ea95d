package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind mirrors the kind column.
type EntryKind string

// LedgerEntry represents a row of the ledger_entries table.
// Rows are never deleted; RevertedAt is set once when the entry is reverted.
type LedgerEntry struct {
	EntryID     string          `db:"entry_id"`
	AssetID     string          `db:"asset_id"`
	Kind        EntryKind       `db:"kind"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	Description string          `db:"description"`
	DebtID      sql.NullString  `db:"debt_id"` // Nullable, set for payment entries
	CreatedAt   time.Time       `db:"created_at"`
	CreatedBy   string          `db:"created_by"`
	RevertedAt  sql.NullTime    `db:"reverted_at"`
}
