package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook/internal/domain"
)

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

// Create creates a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assets (id, budget_id, name, currency, quantity, value_per_unit, is_crypto, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		asset.ID,
		asset.BudgetID,
		asset.Name,
		asset.Currency,
		decimalToNumeric(asset.Quantity),
		decimalToNumeric(asset.ValuePerUnit),
		asset.IsCrypto,
		asset.UserID,
		timeToPgTimestamptz(asset.CreatedAt),
		timeToPgTimestamptz(asset.UpdatedAt),
	)

	return err
}

// GetByID retrieves an asset by ID.
func (r *AssetRepository) GetByID(ctx context.Context, budgetID, id string) (*domain.Asset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, budget_id, name, currency, quantity, value_per_unit, is_crypto, user_id, created_at, updated_at
		FROM assets WHERE budget_id = $1 AND id = $2`, budgetID, id)

	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}

	return asset, nil
}

// Update rewrites an asset's mutable fields.
func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE assets SET name = $3, quantity = $4, value_per_unit = $5, updated_at = $6
		WHERE budget_id = $1 AND id = $2`,
		asset.BudgetID,
		asset.ID,
		asset.Name,
		decimalToNumeric(asset.Quantity),
		decimalToNumeric(asset.ValuePerUnit),
		timeToPgTimestamptz(asset.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}

	return nil
}

// Delete removes an asset. Hard delete, no tombstone.
func (r *AssetRepository) Delete(ctx context.Context, budgetID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM assets WHERE budget_id = $1 AND id = $2`, budgetID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}

	return nil
}

// ListByBudget lists a budget's assets.
func (r *AssetRepository) ListByBudget(ctx context.Context, budgetID string) ([]*domain.Asset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, budget_id, name, currency, quantity, value_per_unit, is_crypto, user_id, created_at, updated_at
		FROM assets WHERE budget_id = $1 ORDER BY created_at`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var (
		a         domain.Asset
		quantity  pgtype.Numeric
		unitValue pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&a.ID, &a.BudgetID, &a.Name, &a.Currency, &quantity, &unitValue, &a.IsCrypto, &a.UserID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.Quantity = numericToDecimal(quantity)
	a.ValuePerUnit = numericToDecimal(unitValue)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}
