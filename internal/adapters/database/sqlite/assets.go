package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/models"
	"github.com/SscSPs/mma_ledger/internal/utils/mapping"
)

const assetColumns = `asset_id, user_id, name, asset_type, initial_balance, balance, alert_threshold,
	created_at, created_by, last_updated_at, last_updated_by, version`

func scanAsset(row rowScanner) (models.Asset, error) {
	var m models.Asset
	err := row.Scan(&m.AssetID, &m.UserID, &m.Name, &m.AssetType, &m.InitialBalance, &m.Balance, &m.AlertThreshold,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version)
	return m, err
}

func (s *Store) SaveAsset(ctx context.Context, asset domain.Asset) error {
	m := mapping.ToModelAsset(asset)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.AssetID, m.UserID, m.Name, m.AssetType, m.InitialBalance, m.Balance, m.AlertThreshold,
		utc(m.CreatedAt), m.CreatedBy, utc(m.LastUpdatedAt), m.LastUpdatedBy, m.Version)
	if err != nil {
		return insertError(err, "asset", m.AssetID)
	}
	return nil
}

func (s *Store) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	m, err := scanAsset(s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE asset_id = ?`, assetID))
	if err != nil {
		return nil, queryError(err, "asset", assetID)
	}
	asset := mapping.ToDomainAsset(m)
	return &asset, nil
}

func (s *Store) ListAssetsByUser(ctx context.Context, userID string) ([]domain.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE user_id = ? ORDER BY name, asset_id`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list assets", err)
	}
	defer rows.Close()

	var ms []models.Asset
	for rows.Next() {
		m, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset rows: %w", err)
	}
	return mapping.ToDomainAssetSlice(ms), nil
}

func updateAssetTx(ctx context.Context, tx *sql.Tx, asset domain.Asset) error {
	m := mapping.ToModelAsset(asset)
	return versionedUpdate(ctx, tx, "asset", m.AssetID,
		`UPDATE assets SET balance = ?, last_updated_at = ?, last_updated_by = ?, version = version + 1
		 WHERE asset_id = ? AND version = ?`,
		m.Balance, utc(m.LastUpdatedAt), m.LastUpdatedBy, m.AssetID, m.Version)
}
