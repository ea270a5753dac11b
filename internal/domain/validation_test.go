package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeCurrency(t *testing.T) {
	if got := NormalizeCurrency("  usd "); got != "USD" {
		t.Errorf("expected USD, got %q", got)
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := ValidateCurrency("usd"); err != nil {
		t.Errorf("lower-case known code should pass: %v", err)
	}
	if err := ValidateCurrency("XXX"); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestIsCryptoAsset(t *testing.T) {
	if !IsCryptoAsset(" Bitcoin ") {
		t.Error("bitcoin should be recognized")
	}
	if IsCryptoAsset("USD") {
		t.Error("USD is not a crypto asset")
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAmount(decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	huge := decimal.RequireFromString(MaxTransactionAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateBudgetName(t *testing.T) {
	if err := ValidateBudgetName("Family"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateBudgetName(""); !errors.Is(err, ErrInvalidBudgetName) {
		t.Errorf("expected ErrInvalidBudgetName, got %v", err)
	}
	if err := ValidateBudgetName(strings.Repeat("x", MaxBudgetNameLength+1)); !errors.Is(err, ErrInvalidBudgetName) {
		t.Errorf("expected ErrInvalidBudgetName, got %v", err)
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength)); err != nil {
		t.Errorf("unexpected error at the limit: %v", err)
	}
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)); !errors.Is(err, ErrDescriptionTooLong) {
		t.Errorf("expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit <= 0 || offset != 0 {
		t.Errorf("expected sane defaults, got limit=%d offset=%d", limit, offset)
	}

	limit, _ = ValidatePagination(25, 0)
	if limit != 25 {
		t.Errorf("expected 25, got %d", limit)
	}
}
