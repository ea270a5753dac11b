package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// BudgetUseCase handles budget lifecycle. It never moves the balance
// aggregate; that belongs to the ledger and import use cases.
type BudgetUseCase struct {
	budgetRepo BudgetRepository
	idGen      IDGenerator
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(budgetRepo BudgetRepository, idGen IDGenerator) *BudgetUseCase {
	return &BudgetUseCase{
		budgetRepo: budgetRepo,
		idGen:      idGen,
	}
}

// CreateBudgetInput represents input for creating a budget.
type CreateBudgetInput struct {
	Name          string
	Currency      string
	OwnerID       string
	Collaborators []string
}

// CreateBudget creates a budget with a zero balance in its storage currency.
func (uc *BudgetUseCase) CreateBudget(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if err := domain.ValidateBudgetName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	budget := &domain.Budget{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		Currency:       domain.NormalizeCurrency(input.Currency),
		CurrentBalance: decimal.Zero,
		OwnerID:        input.OwnerID,
		Collaborators:  input.Collaborators,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.budgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}

	return budget, nil
}

// GetBudget retrieves a budget by ID.
func (uc *BudgetUseCase) GetBudget(ctx context.Context, id string) (*domain.Budget, error) {
	if id == "" {
		return nil, domain.ErrMissingIdentifier
	}
	return uc.budgetRepo.GetByID(ctx, id)
}

// ListBudgetsInput represents input for listing a user's budgets.
type ListBudgetsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListBudgets lists the budgets a user owns or collaborates on.
func (uc *BudgetUseCase) ListBudgets(ctx context.Context, input ListBudgetsInput) ([]*domain.Budget, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.budgetRepo.List(ctx, input.UserID, limit, offset)
}
