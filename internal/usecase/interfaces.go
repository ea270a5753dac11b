package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// BudgetRepository defines data access for budgets and their balance
// aggregate. The aggregate is only ever moved by signed deltas applied
// server-side; ApplyBalanceDelta must not read-modify-write.
type BudgetRepository interface {
	Create(ctx context.Context, budget *domain.Budget) error
	GetByID(ctx context.Context, id string) (*domain.Budget, error)
	ApplyBalanceDelta(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
	SetBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, userID string, limit, offset int) ([]*domain.Budget, error)
}

// TransactionRepository defines data access for ledger records.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	CreateBatch(ctx context.Context, tx Transaction, txns []*domain.Transaction) error
	GetByID(ctx context.Context, budgetID, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, budgetID, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) (int64, error)
	Delete(ctx context.Context, tx Transaction, budgetID, id string) error
	ListByBudget(ctx context.Context, budgetID string, limit int) ([]*domain.Transaction, error)
	SumSignedAmounts(ctx context.Context, budgetID string) (decimal.Decimal, error)
	ExistingImportIDs(ctx context.Context, budgetID string, importIDs []string) (map[string]bool, error)
	DeleteBatchByBudget(ctx context.Context, budgetID string, limit int) (int64, error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, budgetID, id string) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	Delete(ctx context.Context, budgetID, id string) error
	ListByBudget(ctx context.Context, budgetID string) ([]*domain.Loan, error)
}

// AssetRepository defines data access for assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, budgetID, id string) (*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, budgetID, id string) error
	ListByBudget(ctx context.Context, budgetID string) ([]*domain.Asset, error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Upsert(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

// RateResolver resolves conversion rates between currency or asset codes.
// Resolve is the write-path contract: failures are fatal to the caller.
// ResolveForDisplay degrades to 1 on any failure and never returns an error.
type RateResolver interface {
	Resolve(ctx context.Context, base, target string, isAsset bool) (decimal.Decimal, error)
	ResolveForDisplay(ctx context.Context, base, target string) decimal.Decimal
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// EventBus carries ledger change notifications to interested readers.
type EventBus interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Subscribe(ctx context.Context, budgetID string) (<-chan domain.ChangeEvent, error)
}

// ConfirmationStore holds pending delete confirmations keyed by opaque token.
type ConfirmationStore interface {
	Put(ctx context.Context, token string, payload []byte, ttl time.Duration) error
	Take(ctx context.Context, token string) ([]byte, error)
}
