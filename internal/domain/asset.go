package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a held position (savings pot, security, crypto holding) valued in
// its own currency. Like loans, assets stay out of the budget aggregate.
type Asset struct {
	ID           string
	BudgetID     string
	Name         string
	Currency     string
	Quantity     decimal.Decimal
	ValuePerUnit decimal.Decimal
	IsCrypto     bool
	UserID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TotalValue returns quantity times unit value, in the asset's own currency.
func (a *Asset) TotalValue() decimal.Decimal {
	return a.Quantity.Mul(a.ValuePerUnit)
}
