package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook/internal/domain"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Upsert inserts or replaces a category definition.
func (r *CategoryRepository) Upsert(ctx context.Context, category *domain.Category) error {
	var limit pgtype.Numeric
	if category.MonthlyLimit != nil {
		limit = decimalToNumeric(*category.MonthlyLimit)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, name, kind, monthly_limit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = $2, kind = $3, monthly_limit = $4`,
		category.ID, category.Name, string(category.Kind), limit,
	)

	return err
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, kind, monthly_limit FROM categories WHERE id = $1`, id)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return category, nil
}

// List lists all categories.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, kind, monthly_limit FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c     domain.Category
		kind  string
		limit pgtype.Numeric
	)

	if err := row.Scan(&c.ID, &c.Name, &kind, &limit); err != nil {
		return nil, err
	}

	c.Kind = domain.TransactionType(kind)
	if limit.Valid {
		d := numericToDecimal(limit)
		c.MonthlyLimit = &d
	}

	return &c, nil
}
