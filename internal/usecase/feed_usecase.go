package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// FeedUseCase is the read-side projection of the ledger: a descending-by-date
// page with read-time currency conversion. It never writes anything back.
type FeedUseCase struct {
	budgetRepo BudgetRepository
	txnRepo    TransactionRepository
	resolver   RateResolver
	events     EventBus
}

// NewFeedUseCase creates a new FeedUseCase.
func NewFeedUseCase(budgetRepo BudgetRepository, txnRepo TransactionRepository, resolver RateResolver, events EventBus) *FeedUseCase {
	return &FeedUseCase{
		budgetRepo: budgetRepo,
		txnRepo:    txnRepo,
		resolver:   resolver,
		events:     events,
	}
}

// ListInput represents input for listing the feed. Limit acts as a growing
// cursor: "load more" asks again with a larger limit rather than an offset.
type ListInput struct {
	BudgetID        string
	Limit           int
	DisplayCurrency string
}

// FeedItem is a transaction decorated with its display-currency amount. The
// conversion is resolved at read time and never persisted.
type FeedItem struct {
	Transaction     *domain.Transaction
	DisplayAmount   decimal.Decimal
	DisplayCurrency string
}

// List returns the newest transactions of a budget, converted for display.
// Rate hiccups degrade to a 1:1 conversion so a flaky remote never blocks
// the read path.
func (uc *FeedUseCase) List(ctx context.Context, input ListInput) ([]FeedItem, error) {
	if input.BudgetID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	budget, err := uc.budgetRepo.GetByID(ctx, input.BudgetID)
	if err != nil {
		return nil, err
	}

	limit, _ := domain.ValidatePagination(input.Limit, 0)

	txns, err := uc.txnRepo.ListByBudget(ctx, input.BudgetID, limit)
	if err != nil {
		return nil, err
	}

	display := domain.NormalizeCurrency(input.DisplayCurrency)
	if display == "" {
		display = budget.Currency
	}

	rate := decimal.NewFromInt(1)
	if display != budget.Currency {
		rate = uc.resolver.ResolveForDisplay(ctx, budget.Currency, display)
	}

	items := make([]FeedItem, 0, len(txns))
	for _, txn := range txns {
		items = append(items, FeedItem{
			Transaction:     txn,
			DisplayAmount:   txn.Amount.Mul(rate),
			DisplayCurrency: display,
		})
	}

	return items, nil
}

// Totals are the visible income/expense sums. Hidden transactions are
// excluded here but still count toward the ledger balance; "balance" and
// "visible totals" are deliberately separate notions.
type Totals struct {
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Currency string
}

// VisibleTotals sums the non-hidden transactions of the current page.
func (uc *FeedUseCase) VisibleTotals(ctx context.Context, input ListInput) (*Totals, error) {
	items, err := uc.List(ctx, input)
	if err != nil {
		return nil, err
	}

	totals := &Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, item := range items {
		if item.Transaction.IsHidden {
			continue
		}
		totals.Currency = item.DisplayCurrency
		if item.Transaction.Type == domain.TypeIncome {
			totals.Income = totals.Income.Add(item.DisplayAmount)
		} else {
			totals.Expense = totals.Expense.Add(item.DisplayAmount)
		}
	}

	return totals, nil
}

// Export renders the feed as a tabular markup block, presentation only.
// Rows are never round-tripped back into the ledger.
func (uc *FeedUseCase) Export(ctx context.Context, input ListInput) (string, error) {
	items, err := uc.List(ctx, input)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("| Date | Category | Description | Type | Amount |\n")
	b.WriteString("|------|----------|-------------|------|--------|\n")

	for _, item := range items {
		txn := item.Transaction
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			txn.Date.Format("2006-01-02"),
			txn.CategoryID,
			strings.ReplaceAll(txn.Description, "|", "\\|"),
			txn.Type,
			formatAmount(item.DisplayAmount, item.DisplayCurrency),
		)
	}

	return b.String(), nil
}

// Watch subscribes to change events for a budget so callers can refresh.
func (uc *FeedUseCase) Watch(ctx context.Context, budgetID string) (<-chan domain.ChangeEvent, error) {
	if budgetID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if uc.events == nil {
		return nil, fmt.Errorf("no event bus configured")
	}
	return uc.events.Subscribe(ctx, budgetID)
}

// formatAmount renders an amount with its currency symbol for export.
func formatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currency).Display()
}
