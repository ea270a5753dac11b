package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is an independent obligation with its own currency. It never feeds the
// budget balance aggregate; loans are summed at read time per currency group.
type Loan struct {
	ID             string
	BudgetID       string
	Name           string
	Currency       string
	InitialAmount  decimal.Decimal
	CurrentBalance decimal.Decimal
	UserID         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ApplyPayment returns the balance after a payment. The balance floors at
// zero; overpaying closes the loan rather than going negative.
func (l *Loan) ApplyPayment(amount decimal.Decimal) decimal.Decimal {
	next := l.CurrentBalance.Sub(amount)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}
