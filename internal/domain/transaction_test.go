package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransaction_SignedImpact(t *testing.T) {
	income := &Transaction{Type: TypeIncome, Amount: decimal.NewFromInt(100)}
	if !income.SignedImpact().Equal(decimal.NewFromInt(100)) {
		t.Errorf("income impact should be positive, got %s", income.SignedImpact())
	}

	expense := &Transaction{Type: TypeExpense, Amount: decimal.NewFromInt(100)}
	if !expense.SignedImpact().Equal(decimal.NewFromInt(-100)) {
		t.Errorf("expense impact should be negative, got %s", expense.SignedImpact())
	}

	hidden := &Transaction{Type: TypeExpense, Amount: decimal.NewFromInt(40), IsHidden: true}
	if !hidden.SignedImpact().Equal(decimal.NewFromInt(-40)) {
		t.Errorf("hidden transactions still carry impact, got %s", hidden.SignedImpact())
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		ID:       "t-1",
		BudgetID: "b-1",
		Type:     TypeExpense,
		Amount:   decimal.NewFromInt(10),
	}

	tests := []struct {
		name    string
		tweak   func(*Transaction)
		wantErr error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"missing id", func(txn *Transaction) { txn.ID = "" }, ErrMissingIdentifier},
		{"missing budget", func(txn *Transaction) { txn.BudgetID = "" }, ErrMissingIdentifier},
		{"bad type", func(txn *Transaction) { txn.Type = "transfer" }, ErrInvalidTransactionType},
		{"negative amount", func(txn *Transaction) { txn.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := valid
			tt.tweak(&txn)
			if err := txn.Validate(); err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBudget_CanWrite(t *testing.T) {
	b := &Budget{OwnerID: "owner", Collaborators: []string{"friend"}}

	if !b.CanWrite("owner") {
		t.Error("owner must be able to write")
	}
	if !b.CanWrite("friend") {
		t.Error("collaborator must be able to write")
	}
	if b.CanWrite("stranger") {
		t.Error("stranger must not be able to write")
	}
}

func TestLoan_ApplyPayment(t *testing.T) {
	l := &Loan{CurrentBalance: decimal.NewFromInt(100)}

	if got := l.ApplyPayment(decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected 70, got %s", got)
	}

	// Overpayment floors at zero.
	if got := l.ApplyPayment(decimal.NewFromInt(500)); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
}

func TestAsset_TotalValue(t *testing.T) {
	a := &Asset{Quantity: decimal.RequireFromString("2.5"), ValuePerUnit: decimal.NewFromInt(40)}
	if got := a.TotalValue(); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100, got %s", got)
	}
}
