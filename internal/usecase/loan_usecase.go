package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// LoanUseCase handles loans. Loans carry their own currency and balance and
// never feed the budget aggregate.
type LoanUseCase struct {
	loanRepo LoanRepository
	idGen    IDGenerator
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(loanRepo LoanRepository, idGen IDGenerator) *LoanUseCase {
	return &LoanUseCase{loanRepo: loanRepo, idGen: idGen}
}

// CreateLoanInput represents input for creating a loan.
type CreateLoanInput struct {
	BudgetID string
	UserID   string
	Name     string
	Currency string
	Amount   decimal.Decimal
}

// CreateLoan records a new loan at its full amount.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	if input.BudgetID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:             uc.idGen.Generate(),
		BudgetID:       input.BudgetID,
		Name:           input.Name,
		Currency:       domain.NormalizeCurrency(input.Currency),
		InitialAmount:  input.Amount,
		CurrentBalance: input.Amount,
		UserID:         input.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// RecordPayment reduces a loan's balance, flooring at zero.
func (uc *LoanUseCase) RecordPayment(ctx context.Context, budgetID, id string, amount decimal.Decimal) (*domain.Loan, error) {
	if budgetID == "" || id == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	loan, err := uc.loanRepo.GetByID(ctx, budgetID, id)
	if err != nil {
		return nil, err
	}

	loan.CurrentBalance = loan.ApplyPayment(amount)
	loan.UpdatedAt = time.Now().UTC()

	if err := uc.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// DeleteLoan removes a loan. Hard delete, no tombstone.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, budgetID, id string) error {
	if budgetID == "" || id == "" {
		return domain.ErrMissingIdentifier
	}
	return uc.loanRepo.Delete(ctx, budgetID, id)
}

// CurrencyGroup is a per-currency sum of independent entities, computed at
// read time.
type CurrencyGroup struct {
	Currency string
	Total    decimal.Decimal
	Count    int
}

// SummarizeLoans groups a budget's loans by currency.
func (uc *LoanUseCase) SummarizeLoans(ctx context.Context, budgetID string) ([]CurrencyGroup, error) {
	if budgetID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	loans, err := uc.loanRepo.ListByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*CurrencyGroup)
	order := make([]string, 0)
	for _, loan := range loans {
		g, ok := groups[loan.Currency]
		if !ok {
			g = &CurrencyGroup{Currency: loan.Currency, Total: decimal.Zero}
			groups[loan.Currency] = g
			order = append(order, loan.Currency)
		}
		g.Total = g.Total.Add(loan.CurrentBalance)
		g.Count++
	}

	result := make([]CurrencyGroup, 0, len(order))
	for _, cur := range order {
		result = append(result, *groups[cur])
	}

	return result, nil
}
