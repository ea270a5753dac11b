package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	OwnerID        string          `json:"owner_id"`
	Collaborators  []string        `json:"collaborators,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BudgetFromDomain converts a domain budget to a response.
func BudgetFromDomain(b *domain.Budget) *BudgetResponse {
	return &BudgetResponse{
		ID:             b.ID,
		Name:           b.Name,
		Currency:       b.Currency,
		CurrentBalance: b.CurrentBalance,
		OwnerID:        b.OwnerID,
		Collaborators:  b.Collaborators,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// BudgetsFromDomain converts domain budgets to responses.
func BudgetsFromDomain(budgets []*domain.Budget) []*BudgetResponse {
	result := make([]*BudgetResponse, len(budgets))
	for i, b := range budgets {
		result[i] = BudgetFromDomain(b)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID               string          `json:"id"`
	BudgetID         string          `json:"budget_id"`
	Date             time.Time       `json:"date"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	OriginalCurrency string          `json:"original_currency"`
	CategoryID       string          `json:"category_id"`
	Description      string          `json:"description,omitempty"`
	UserID           string          `json:"user_id"`
	UserName         string          `json:"user_name,omitempty"`
	IsHidden         bool            `json:"is_hidden"`
	IsRecurring      bool            `json:"is_recurring"`
	ImportSource     string          `json:"import_source,omitempty"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		BudgetID:         t.BudgetID,
		Date:             t.Date,
		Type:             string(t.Type),
		Amount:           t.Amount,
		OriginalAmount:   t.OriginalAmount,
		OriginalCurrency: t.OriginalCurrency,
		CategoryID:       t.CategoryID,
		Description:      t.Description,
		UserID:           t.UserID,
		UserName:         t.UserName,
		IsHidden:         t.IsHidden,
		IsRecurring:      t.IsRecurring,
		ImportSource:     t.ImportSource,
		Version:          t.Version,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// FeedItemResponse is a transaction decorated with its display conversion.
type FeedItemResponse struct {
	*TransactionResponse

	DisplayAmount   decimal.Decimal `json:"display_amount"`
	DisplayCurrency string          `json:"display_currency"`
}

// FeedFromUseCase converts feed items to responses.
func FeedFromUseCase(items []usecase.FeedItem) []*FeedItemResponse {
	result := make([]*FeedItemResponse, len(items))
	for i, item := range items {
		result[i] = &FeedItemResponse{
			TransactionResponse: TransactionFromDomain(item.Transaction),
			DisplayAmount:       item.DisplayAmount,
			DisplayCurrency:     item.DisplayCurrency,
		}
	}
	return result
}

// TotalsResponse reports the income and expense sums of a feed page.
type TotalsResponse struct {
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Currency string          `json:"currency"`
}

// TotalsFromUseCase converts totals to a response.
func TotalsFromUseCase(t *usecase.Totals) *TotalsResponse {
	return &TotalsResponse{
		Income:   t.Income,
		Expense:  t.Expense,
		Currency: t.Currency,
	}
}

// DeleteRequestedResponse carries the confirmation token for a two-step delete.
type DeleteRequestedResponse struct {
	Token     string `json:"token"`
	ExpiresIn string `json:"expires_in"`
}

// BalanceResponse reports a budget's balance after a recalculation.
type BalanceResponse struct {
	BudgetID string          `json:"budget_id"`
	Balance  decimal.Decimal `json:"balance"`
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID             string          `json:"id"`
	BudgetID       string          `json:"budget_id"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialAmount  decimal.Decimal `json:"initial_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:             l.ID,
		BudgetID:       l.BudgetID,
		Name:           l.Name,
		Currency:       l.Currency,
		InitialAmount:  l.InitialAmount,
		CurrentBalance: l.CurrentBalance,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// CurrencyGroupResponse is a per-currency loan summary.
type CurrencyGroupResponse struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// CurrencyGroupsFromUseCase converts loan summaries to responses.
func CurrencyGroupsFromUseCase(groups []usecase.CurrencyGroup) []*CurrencyGroupResponse {
	result := make([]*CurrencyGroupResponse, len(groups))
	for i, g := range groups {
		result[i] = &CurrencyGroupResponse{
			Currency: g.Currency,
			Total:    g.Total,
			Count:    g.Count,
		}
	}
	return result
}

// AssetResponse represents an asset position in API responses.
type AssetResponse struct {
	ID           string          `json:"id"`
	BudgetID     string          `json:"budget_id"`
	Name         string          `json:"name"`
	Currency     string          `json:"currency"`
	Quantity     decimal.Decimal `json:"quantity"`
	ValuePerUnit decimal.Decimal `json:"value_per_unit"`
	TotalValue   decimal.Decimal `json:"total_value"`
	IsCrypto     bool            `json:"is_crypto"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AssetFromDomain converts a domain asset to a response.
func AssetFromDomain(a *domain.Asset) *AssetResponse {
	return &AssetResponse{
		ID:           a.ID,
		BudgetID:     a.BudgetID,
		Name:         a.Name,
		Currency:     a.Currency,
		Quantity:     a.Quantity,
		ValuePerUnit: a.ValuePerUnit,
		TotalValue:   a.TotalValue(),
		IsCrypto:     a.IsCrypto,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AssetGroupResponse is a per-currency asset summary with display valuation.
type AssetGroupResponse struct {
	Currency        string          `json:"currency"`
	Total           decimal.Decimal `json:"total"`
	Count           int             `json:"count"`
	DisplayTotal    decimal.Decimal `json:"display_total"`
	DisplayCurrency string          `json:"display_currency"`
}

// AssetGroupsFromUseCase converts asset summaries to responses.
func AssetGroupsFromUseCase(groups []usecase.AssetGroup) []*AssetGroupResponse {
	result := make([]*AssetGroupResponse, len(groups))
	for i, g := range groups {
		result[i] = &AssetGroupResponse{
			Currency:        g.Currency,
			Total:           g.Total,
			Count:           g.Count,
			DisplayTotal:    g.DisplayTotal,
			DisplayCurrency: g.DisplayCurrency,
		}
	}
	return result
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Kind         string           `json:"kind"`
	MonthlyLimit *decimal.Decimal `json:"monthly_limit,omitempty"`
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = &CategoryResponse{
			ID:           c.ID,
			Name:         c.Name,
			Kind:         string(c.Kind),
			MonthlyLimit: c.MonthlyLimit,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
