package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook/internal/domain"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create creates a new loan.
func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO loans (id, budget_id, name, currency, initial_amount, current_balance, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		loan.ID,
		loan.BudgetID,
		loan.Name,
		loan.Currency,
		decimalToNumeric(loan.InitialAmount),
		decimalToNumeric(loan.CurrentBalance),
		loan.UserID,
		timeToPgTimestamptz(loan.CreatedAt),
		timeToPgTimestamptz(loan.UpdatedAt),
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, budgetID, id string) (*domain.Loan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, budget_id, name, currency, initial_amount, current_balance, user_id, created_at, updated_at
		FROM loans WHERE budget_id = $1 AND id = $2`, budgetID, id)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	return loan, nil
}

// Update rewrites a loan's mutable fields.
func (r *LoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE loans SET name = $3, current_balance = $4, updated_at = $5
		WHERE budget_id = $1 AND id = $2`,
		loan.BudgetID,
		loan.ID,
		loan.Name,
		decimalToNumeric(loan.CurrentBalance),
		timeToPgTimestamptz(loan.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// Delete removes a loan. Hard delete, no tombstone.
func (r *LoanRepository) Delete(ctx context.Context, budgetID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM loans WHERE budget_id = $1 AND id = $2`, budgetID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// ListByBudget lists a budget's loans.
func (r *LoanRepository) ListByBudget(ctx context.Context, budgetID string) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, budget_id, name, currency, initial_amount, current_balance, user_id, created_at, updated_at
		FROM loans WHERE budget_id = $1 ORDER BY created_at`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		l         domain.Loan
		initial   pgtype.Numeric
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&l.ID, &l.BudgetID, &l.Name, &l.Currency, &initial, &balance, &l.UserID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	l.InitialAmount = numericToDecimal(initial)
	l.CurrentBalance = numericToDecimal(balance)
	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time

	return &l, nil
}
