package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/internal/usecase/mocks"
)

func seedFeed(t *testing.T) (*mocks.MockBudgetRepository, *mocks.MockTransactionRepository) {
	t.Helper()
	ctx := context.Background()

	budgetRepo := mocks.NewMockBudgetRepository()
	budgetRepo.Create(ctx, &domain.Budget{ID: "b-1", Name: "Family", Currency: "USD", OwnerID: "user-1"})

	txnRepo := mocks.NewMockTransactionRepository()
	txns := []*domain.Transaction{
		{ID: "t-1", BudgetID: "b-1", Type: domain.TypeIncome, Amount: decimal.NewFromInt(1000),
			CategoryID: "salary", Description: "Salary", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "t-2", BudgetID: "b-1", Type: domain.TypeExpense, Amount: decimal.NewFromInt(200),
			CategoryID: "groceries", Description: "Groceries", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "t-3", BudgetID: "b-1", Type: domain.TypeExpense, Amount: decimal.NewFromInt(50),
			CategoryID: "other", Description: "Surprise gift", IsHidden: true,
			Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, txn := range txns {
		txnRepo.Create(ctx, nil, txn)
	}

	return budgetRepo, txnRepo
}

func TestFeedUseCase_List(t *testing.T) {
	ctx := context.Background()
	budgetRepo, txnRepo := seedFeed(t)

	t.Run("defaults to the storage currency at 1:1", func(t *testing.T) {
		uc := usecase.NewFeedUseCase(budgetRepo, txnRepo, mocks.NewMockRateResolver(), nil)

		items, err := uc.List(ctx, usecase.ListInput{BudgetID: "b-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		for _, item := range items {
			if item.DisplayCurrency != "USD" {
				t.Errorf("expected USD display, got %s", item.DisplayCurrency)
			}
			if !item.DisplayAmount.Equal(item.Transaction.Amount) {
				t.Errorf("expected identity conversion, got %s", item.DisplayAmount)
			}
		}
	})

	t.Run("converts into the requested display currency", func(t *testing.T) {
		resolver := mocks.NewMockRateResolver()
		resolver.SetRate("USD", "EUR", decimal.RequireFromString("0.9"))
		uc := usecase.NewFeedUseCase(budgetRepo, txnRepo, resolver, nil)

		items, err := uc.List(ctx, usecase.ListInput{BudgetID: "b-1", DisplayCurrency: "eur"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, item := range items {
			if item.DisplayCurrency != "EUR" {
				t.Errorf("expected EUR display, got %s", item.DisplayCurrency)
			}
		}
		for _, item := range items {
			if item.Transaction.ID == "t-1" && !item.DisplayAmount.Equal(decimal.NewFromInt(900)) {
				t.Errorf("expected 900 EUR, got %s", item.DisplayAmount)
			}
		}
	})

	t.Run("rate failure degrades to 1:1, never an error", func(t *testing.T) {
		resolver := mocks.NewMockRateResolver()
		resolver.ResolveForDisplayFunc = func(ctx context.Context, base, target string) decimal.Decimal {
			return decimal.NewFromInt(1)
		}
		uc := usecase.NewFeedUseCase(budgetRepo, txnRepo, resolver, nil)

		items, err := uc.List(ctx, usecase.ListInput{BudgetID: "b-1", DisplayCurrency: "EUR"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, item := range items {
			if !item.DisplayAmount.Equal(item.Transaction.Amount) {
				t.Errorf("expected degraded 1:1 amount, got %s", item.DisplayAmount)
			}
		}
	})

	t.Run("unknown budget", func(t *testing.T) {
		uc := usecase.NewFeedUseCase(budgetRepo, txnRepo, mocks.NewMockRateResolver(), nil)
		if _, err := uc.List(ctx, usecase.ListInput{BudgetID: "nope"}); err != domain.ErrBudgetNotFound {
			t.Errorf("expected ErrBudgetNotFound, got %v", err)
		}
	})
}

func TestFeedUseCase_VisibleTotals(t *testing.T) {
	ctx := context.Background()
	budgetRepo, txnRepo := seedFeed(t)

	uc := usecase.NewFeedUseCase(budgetRepo, txnRepo, mocks.NewMockRateResolver(), nil)

	totals, err := uc.VisibleTotals(ctx, usecase.ListInput{BudgetID: "b-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !totals.Income.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected income 1000, got %s", totals.Income)
	}
	// The hidden 50 expense stays out of the visible totals.
	if !totals.Expense.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected expense 200, got %s", totals.Expense)
	}
}

func TestFeedUseCase_Export(t *testing.T) {
	ctx := context.Background()
	budgetRepo, txnRepo := seedFeed(t)

	uc := usecase.NewFeedUseCase(budgetRepo, txnRepo, mocks.NewMockRateResolver(), nil)

	doc, err := uc.Export(ctx, usecase.ListInput{BudgetID: "b-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(doc, "| Date | Category | Description | Type | Amount |") {
		t.Errorf("missing table header:\n%s", doc)
	}
	if !strings.Contains(doc, "Groceries") {
		t.Errorf("missing row content:\n%s", doc)
	}
	if !strings.Contains(doc, "$1,000.00") {
		t.Errorf("expected formatted USD amount:\n%s", doc)
	}
}

func TestFeedUseCase_Watch(t *testing.T) {
	ctx := context.Background()
	budgetRepo, txnRepo := seedFeed(t)

	events := mocks.NewMockEventBus()
	ch := make(chan domain.ChangeEvent, 1)
	events.SubscribeFunc = func(ctx context.Context, budgetID string) (<-chan domain.ChangeEvent, error) {
		return ch, nil
	}

	uc := usecase.NewFeedUseCase(budgetRepo, txnRepo, mocks.NewMockRateResolver(), events)

	sub, err := uc.Watch(ctx, "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ch <- domain.ChangeEvent{EventType: domain.EventTypeTransactionAdded, BudgetID: "b-1"}
	event := <-sub
	if event.EventType != domain.EventTypeTransactionAdded {
		t.Errorf("expected %s, got %s", domain.EventTypeTransactionAdded, event.EventType)
	}

	if _, err := uc.Watch(ctx, ""); err == nil {
		t.Error("expected error for missing budget id")
	}
}
