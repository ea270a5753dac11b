package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidBudgetName  = errors.New("invalid budget name")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
)

// Validation constants
const (
	MaxBudgetNameLength  = 255
	MaxDescriptionLength = 1024
	MaxTransactionAmount = "1000000000" // 1 billion, storage currency units
)

// Valid fiat currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "PLN": true, "TRY": true, "HKD": true,
	"CZK": true, "DKK": true, "UAH": true, "ILS": true,
}

// CryptoAssets maps crypto asset ids that are priced through the asset quote
// source rather than the fiat rate source.
var CryptoAssets = map[string]bool{
	"bitcoin": true, "ethereum": true, "litecoin": true,
	"ripple": true, "cardano": true, "solana": true,
	"dogecoin": true, "polkadot": true, "tether": true,
}

// IsCryptoAsset reports whether code names a known crypto asset.
func IsCryptoAsset(code string) bool {
	return CryptoAssets[strings.ToLower(strings.TrimSpace(code))]
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCurrency validates a fiat currency code.
func ValidateCurrency(currency string) error {
	if !validCurrencies[NormalizeCurrency(currency)] {
		return fmt.Errorf("%w: %s is not a supported ISO 4217 code", ErrInvalidCurrency, currency)
	}
	return nil
}

// ValidateBudgetName validates a budget name.
func ValidateBudgetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidBudgetName)
	}
	if len(name) > MaxBudgetNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidBudgetName, MaxBudgetNameLength)
	}
	return nil
}

// ValidateAmount validates a transaction magnitude before pricing.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidateDescription validates free-text description length.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: limit is %d bytes", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
