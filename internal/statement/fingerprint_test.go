package statement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finbook/internal/domain"
)

func TestFingerprint(t *testing.T) {
	amount := decimal.RequireFromString("-3.5")

	got := Fingerprint("revolut", "2024-03-01", amount, "  Coffee   Shop ")
	assert.Equal(t, "revolut_2024-03-01_3.50_coffee_shop", got)

	// Same row, different export quirks, same key.
	again := Fingerprint("revolut", "2024-03-01", decimal.RequireFromString("3.50"), "COFFEE SHOP")
	assert.Equal(t, got, again)

	// Any field change produces a different key.
	assert.NotEqual(t, got, Fingerprint("monzo", "2024-03-01", amount, "Coffee Shop"))
	assert.NotEqual(t, got, Fingerprint("revolut", "2024-03-02", amount, "Coffee Shop"))
	assert.NotEqual(t, got, Fingerprint("revolut", "2024-03-01", decimal.RequireFromString("-3.51"), "Coffee Shop"))
}

func TestNormalize(t *testing.T) {
	rows := []Row{
		{CompletedDate: "2024-03-01 09:30:00", Description: "Coffee", Amount: decimal.RequireFromString("-3.50"), Currency: "USD"},
		{CompletedDate: "2024-03-02", Description: "Salary", Amount: decimal.RequireFromString("1500"), Currency: "USD"},
		{CompletedDate: "not a date", Description: "Broken", Amount: decimal.NewFromInt(1), Currency: "USD"},
	}

	candidates := Normalize("revolut", rows)
	require.Len(t, candidates, 2, "unparseable dates are dropped")

	assert.Equal(t, domain.TypeExpense, candidates[0].Type)
	assert.True(t, candidates[0].Amount.Equal(decimal.RequireFromString("3.50")), "magnitude is absolute")
	assert.Equal(t, "2024-03-01", candidates[0].Date)

	assert.Equal(t, domain.TypeIncome, candidates[1].Type)
	assert.Equal(t, "revolut_2024-03-02_1500.00_salary", candidates[1].Fingerprint)
}
