package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/mma_ledger/internal/models"
	"github.com/SscSPs/mma_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const assetColumns = `asset_id, user_id, name, asset_type, initial_balance, balance, alert_threshold,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxAssetRepository struct {
	BaseRepository
}

// newPgxAssetRepository creates a new repository for asset data.
func newPgxAssetRepository(pool *pgxpool.Pool) portsrepo.AssetRepositoryFacade {
	return &PgxAssetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AssetRepositoryFacade = (*PgxAssetRepository)(nil)

func scanAsset(row rowScanner) (models.Asset, error) {
	var m models.Asset
	err := row.Scan(
		&m.AssetID,
		&m.UserID,
		&m.Name,
		&m.AssetType,
		&m.InitialBalance,
		&m.Balance,
		&m.AlertThreshold,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	return m, err
}

// SaveAsset inserts a new asset.
func (r *PgxAssetRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	m := mapping.ToModelAsset(asset)
	query := `INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := r.Pool.Exec(ctx, query,
		m.AssetID,
		m.UserID,
		m.Name,
		m.AssetType,
		m.InitialBalance,
		m.Balance,
		m.AlertThreshold,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return insertError(err, "asset", m.AssetID)
	}
	return nil
}

// FindAssetByID retrieves an asset by its ID.
func (r *PgxAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1;`

	m, err := scanAsset(r.Pool.QueryRow(ctx, query, assetID))
	if err != nil {
		return nil, queryError(err, "asset", assetID)
	}
	asset := mapping.ToDomainAsset(m)
	return &asset, nil
}

// ListAssetsByUser returns the user's assets ordered by name.
func (r *PgxAssetRepository) ListAssetsByUser(ctx context.Context, userID string) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE user_id = $1 ORDER BY name, asset_id;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list assets", err)
	}
	defer rows.Close()

	var ms []models.Asset
	for rows.Next() {
		m, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", err)
	}
	return mapping.ToDomainAssetSlice(ms), nil
}

func updateAssetTx(ctx context.Context, tx pgx.Tx, asset domain.Asset) error {
	m := mapping.ToModelAsset(asset)
	query := `
		UPDATE assets
		SET balance = $3, last_updated_at = $4, last_updated_by = $5, version = version + 1
		WHERE asset_id = $1 AND version = $2;
	`
	return versionedUpdate(ctx, tx, "asset", m.AssetID, query,
		m.AssetID, m.Version, m.Balance, m.LastUpdatedAt, m.LastUpdatedBy)
}
