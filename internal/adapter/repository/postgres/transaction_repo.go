package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

const transactionColumns = `
	id, budget_id, date, type, amount, original_amount, original_currency,
	category_id, description, user_id, user_name, is_hidden, is_recurring,
	import_id, import_source, version, created_at, updated_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts one transaction inside the given storage transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertTransactionSQL, insertArgs(txn)...)

	return err
}

// CreateBatch inserts many transactions in one round trip using pgx batching.
func (r *TransactionRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, txns []*domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionSQL, insertArgs(txn)...)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range txns {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}

const insertTransactionSQL = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

func insertArgs(txn *domain.Transaction) []any {
	return []any{
		txn.ID,
		txn.BudgetID,
		timeToPgTimestamptz(txn.Date),
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.OriginalAmount),
		txn.OriginalCurrency,
		txn.CategoryID,
		txn.Description,
		txn.UserID,
		txn.UserName,
		txn.IsHidden,
		txn.IsRecurring,
		textOrNull(txn.ImportID),
		txn.ImportSource,
		txn.Version,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	}
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, budgetID, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions WHERE budget_id = $1 AND id = $2`, budgetID, id)

	return scanTransaction(row)
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock, guarding
// the read-compute-write cycle against concurrent editors.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, budgetID, id string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions WHERE budget_id = $1 AND id = $2 FOR UPDATE`, budgetID, id)

	return scanTransaction(row)
}

// Update rewrites a transaction guarded by its previous version. Returns
// the number of rows touched; zero means a concurrent editor won the race.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET date = $3, type = $4, amount = $5, original_amount = $6,
		    original_currency = $7, category_id = $8, description = $9,
		    is_hidden = $10, is_recurring = $11, version = $12, updated_at = $13
		WHERE budget_id = $1 AND id = $2 AND version = $12 - 1`,
		txn.BudgetID,
		txn.ID,
		timeToPgTimestamptz(txn.Date),
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.OriginalAmount),
		txn.OriginalCurrency,
		txn.CategoryID,
		txn.Description,
		txn.IsHidden,
		txn.IsRecurring,
		txn.Version,
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, budgetID, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		DELETE FROM transactions WHERE budget_id = $1 AND id = $2`, budgetID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByBudget returns the newest transactions first. limit acts as the
// growing feed cursor.
func (r *TransactionRepository) ListByBudget(ctx context.Context, budgetID string, limit int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE budget_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2`,
		budgetID, int32(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// SumSignedAmounts recomputes the aggregate from scratch over live rows.
func (r *TransactionRepository) SumSignedAmounts(ctx context.Context, budgetID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
		FROM transactions WHERE budget_id = $1`, budgetID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ExistingImportIDs returns which of the given fingerprints already exist.
// Callers chunk the input to respect per-query key limits.
func (r *TransactionRepository) ExistingImportIDs(ctx context.Context, budgetID string, importIDs []string) (map[string]bool, error) {
	if len(importIDs) == 0 {
		return map[string]bool{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT import_id FROM transactions
		WHERE budget_id = $1 AND import_id = ANY($2)`,
		budgetID, importIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}

	return existing, rows.Err()
}

// DeleteBatchByBudget deletes up to limit transactions of a budget and
// reports how many went away. ClearHistory loops this until zero.
func (r *TransactionRepository) DeleteBatchByBudget(ctx context.Context, budgetID string, limit int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM transactions
		WHERE id IN (
			SELECT id FROM transactions WHERE budget_id = $1 LIMIT $2
		)`,
		budgetID, int32(limit),
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t              domain.Transaction
		txnType        string
		amount         pgtype.Numeric
		originalAmount pgtype.Numeric
		importID       pgtype.Text
		date           pgtype.Timestamptz
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&t.ID, &t.BudgetID, &date, &txnType, &amount, &originalAmount,
		&t.OriginalCurrency, &t.CategoryID, &t.Description, &t.UserID,
		&t.UserName, &t.IsHidden, &t.IsRecurring, &importID,
		&t.ImportSource, &t.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	t.Type = domain.TransactionType(txnType)
	t.Amount = numericToDecimal(amount)
	t.OriginalAmount = numericToDecimal(originalAmount)
	t.ImportID = importID.String
	t.Date = date.Time
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
