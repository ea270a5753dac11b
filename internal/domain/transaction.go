package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming into a budget from money
// leaving it.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// DefaultCategoryID is assigned when no category is given or matched.
const DefaultCategoryID = "other"

// Transaction is a single ledger record. Amount is always stored in the
// budget's storage currency; OriginalAmount/OriginalCurrency preserve what
// the user actually entered. Stored amounts are never re-priced after write.
type Transaction struct {
	ID               string
	BudgetID         string
	Date             time.Time
	Type             TransactionType
	Amount           decimal.Decimal
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
	CategoryID       string
	Description      string
	UserID           string
	UserName         string
	IsHidden         bool
	IsRecurring      bool
	ImportID         string
	ImportSource     string
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SignedImpact returns the transaction's contribution to the budget balance:
// positive for income, negative for expense. Hidden transactions still count.
func (t *Transaction) SignedImpact() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks structural invariants of a transaction record.
func (t *Transaction) Validate() error {
	if t.ID == "" || t.BudgetID == "" {
		return ErrMissingIdentifier
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrInvalidTransactionType
	}
	if t.Amount.IsNegative() || t.OriginalAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
