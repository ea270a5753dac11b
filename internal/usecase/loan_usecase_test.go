package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/internal/usecase/mocks"
)

func newLoanUseCase() (*usecase.LoanUseCase, *mocks.MockLoanRepository) {
	repo := mocks.NewMockLoanRepository()
	return usecase.NewLoanUseCase(repo, mocks.NewMockIDGenerator()), repo
}

func TestLoanUseCase_CreateLoan(t *testing.T) {
	uc, _ := newLoanUseCase()

	loan, err := uc.CreateLoan(context.Background(), usecase.CreateLoanInput{
		BudgetID: "budget-1",
		UserID:   "user-1",
		Name:     "Car",
		Currency: "eur",
		Amount:   decimal.NewFromInt(5000),
	})
	if err != nil {
		t.Fatalf("CreateLoan() error = %v", err)
	}
	if loan.Currency != "EUR" {
		t.Errorf("Currency = %q, want normalized EUR", loan.Currency)
	}
	if !loan.CurrentBalance.Equal(loan.InitialAmount) {
		t.Errorf("CurrentBalance = %s, want initial amount %s", loan.CurrentBalance, loan.InitialAmount)
	}

	_, err = uc.CreateLoan(context.Background(), usecase.CreateLoanInput{
		BudgetID: "budget-1",
		Amount:   decimal.NewFromInt(-10),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("negative amount error = %v, want ErrInvalidAmount", err)
	}

	_, err = uc.CreateLoan(context.Background(), usecase.CreateLoanInput{Amount: decimal.NewFromInt(10)})
	if !errors.Is(err, domain.ErrMissingIdentifier) {
		t.Errorf("missing budget error = %v, want ErrMissingIdentifier", err)
	}
}

func TestLoanUseCase_RecordPayment(t *testing.T) {
	uc, repo := newLoanUseCase()
	ctx := context.Background()
	repo.Create(ctx, &domain.Loan{
		ID:             "loan-1",
		BudgetID:       "budget-1",
		Name:           "Car",
		Currency:       "USD",
		InitialAmount:  decimal.NewFromInt(5000),
		CurrentBalance: decimal.NewFromInt(5000),
	})

	loan, err := uc.RecordPayment(ctx, "budget-1", "loan-1", decimal.NewFromInt(1500))
	if err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	if !loan.CurrentBalance.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("balance = %s, want 3500", loan.CurrentBalance)
	}

	// Overpayment floors at zero rather than going negative.
	loan, err = uc.RecordPayment(ctx, "budget-1", "loan-1", decimal.NewFromInt(9999))
	if err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	if !loan.CurrentBalance.IsZero() {
		t.Errorf("overpaid balance = %s, want 0", loan.CurrentBalance)
	}

	if _, err := uc.RecordPayment(ctx, "budget-1", "missing", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Errorf("missing loan error = %v, want ErrLoanNotFound", err)
	}
	if _, err := uc.RecordPayment(ctx, "other-budget", "loan-1", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Errorf("wrong budget error = %v, want ErrLoanNotFound", err)
	}
}

func TestLoanUseCase_DeleteLoan(t *testing.T) {
	uc, repo := newLoanUseCase()
	ctx := context.Background()
	repo.Create(ctx, &domain.Loan{ID: "loan-1", BudgetID: "budget-1", CurrentBalance: decimal.NewFromInt(100)})

	if err := uc.DeleteLoan(ctx, "budget-1", "loan-1"); err != nil {
		t.Fatalf("DeleteLoan() error = %v", err)
	}
	if err := uc.DeleteLoan(ctx, "budget-1", "loan-1"); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Errorf("second delete error = %v, want ErrLoanNotFound", err)
	}
}

func TestLoanUseCase_SummarizeLoans(t *testing.T) {
	uc, repo := newLoanUseCase()
	ctx := context.Background()

	repo.Create(ctx, &domain.Loan{ID: "l1", BudgetID: "budget-1", Currency: "USD", CurrentBalance: decimal.NewFromInt(100)})
	repo.Create(ctx, &domain.Loan{ID: "l2", BudgetID: "budget-1", Currency: "USD", CurrentBalance: decimal.NewFromInt(250)})
	repo.Create(ctx, &domain.Loan{ID: "l3", BudgetID: "budget-1", Currency: "EUR", CurrentBalance: decimal.NewFromInt(40)})
	repo.Create(ctx, &domain.Loan{ID: "l4", BudgetID: "other", Currency: "USD", CurrentBalance: decimal.NewFromInt(999)})

	groups, err := uc.SummarizeLoans(ctx, "budget-1")
	if err != nil {
		t.Fatalf("SummarizeLoans() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d currency groups, want 2", len(groups))
	}

	byCurrency := make(map[string]usecase.CurrencyGroup)
	for _, g := range groups {
		byCurrency[g.Currency] = g
	}
	if usd := byCurrency["USD"]; !usd.Total.Equal(decimal.NewFromInt(350)) || usd.Count != 2 {
		t.Errorf("USD group = %s/%d, want 350/2", usd.Total, usd.Count)
	}
	if eur := byCurrency["EUR"]; !eur.Total.Equal(decimal.NewFromInt(40)) || eur.Count != 1 {
		t.Errorf("EUR group = %s/%d, want 40/1", eur.Total, eur.Count)
	}
}
