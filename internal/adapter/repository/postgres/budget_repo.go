package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create creates a new budget.
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO budgets (id, name, currency, current_balance, owner_id, collaborators, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		budget.ID,
		budget.Name,
		budget.Currency,
		decimalToNumeric(budget.CurrentBalance),
		budget.OwnerID,
		budget.Collaborators,
		timeToPgTimestamptz(budget.CreatedAt),
		timeToPgTimestamptz(budget.UpdatedAt),
	)

	return err
}

// GetByID retrieves a budget by ID.
func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, currency, current_balance, owner_id, collaborators, created_at, updated_at
		FROM budgets WHERE id = $1`, id)

	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}

	return budget, nil
}

// ApplyBalanceDelta moves the balance aggregate by a signed delta with a
// server-side increment. No read-modify-write happens in the application;
// concurrent deltas serialize on the row.
func (r *BudgetRepository) ApplyBalanceDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE budgets
		SET current_balance = current_balance + $2, updated_at = $3
		WHERE id = $1`,
		id, decimalToNumeric(delta), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}

	return nil
}

// SetBalance overwrites the aggregate. Only the recalculation and
// clear-history paths call this.
func (r *BudgetRepository) SetBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE budgets SET current_balance = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}

	return nil
}

// List lists the budgets a user owns or collaborates on.
func (r *BudgetRepository) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, currency, current_balance, owner_id, collaborators, created_at, updated_at
		FROM budgets
		WHERE owner_id = $1 OR $1 = ANY(collaborators)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}

	return budgets, rows.Err()
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b             domain.Budget
		balance       pgtype.Numeric
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
		collaborators []string
	)

	err := row.Scan(&b.ID, &b.Name, &b.Currency, &balance, &b.OwnerID, &collaborators, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	b.CurrentBalance = numericToDecimal(balance)
	b.Collaborators = collaborators
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
