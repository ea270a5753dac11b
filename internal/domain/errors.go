package domain

import "errors"

var (
	// Ledger errors
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrBudgetNotFound         = errors.New("budget not found")
	ErrConcurrentModification = errors.New("concurrent modification, retries exhausted")
	ErrMissingIdentifier      = errors.New("required identifier is missing")
	ErrInvalidAmount          = errors.New("amount must not be negative")
	ErrInvalidTransactionType = errors.New("transaction type must be income or expense")
	ErrNotAuthorized          = errors.New("user is not a collaborator on this budget")

	// Rate errors
	ErrRateUnavailable = errors.New("conversion rate unavailable")

	// Loan/asset errors
	ErrLoanNotFound     = errors.New("loan not found")
	ErrAssetNotFound    = errors.New("asset not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Delete confirmation errors
	ErrConfirmationExpired = errors.New("delete confirmation token expired or unknown")
)
