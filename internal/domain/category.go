package domain

import "github.com/shopspring/decimal"

// Category groups transactions for presentation. MonthlyLimit, when set, is
// expressed in the budget's storage currency.
type Category struct {
	ID           string
	Name         string
	Kind         TransactionType
	MonthlyLimit *decimal.Decimal
}
