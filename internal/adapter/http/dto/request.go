package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// CreateBudgetRequest represents a request to create a budget.
type CreateBudgetRequest struct {
	Name          string   `json:"name"`
	Currency      string   `json:"currency"`
	Collaborators []string `json:"collaborators,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBudgetRequest) ToUseCaseInput(ownerID string) usecase.CreateBudgetInput {
	return usecase.CreateBudgetInput{
		Name:          r.Name,
		Currency:      r.Currency,
		OwnerID:       ownerID,
		Collaborators: r.Collaborators,
	}
}

// AddTransactionRequest represents a request to record a transaction.
type AddTransactionRequest struct {
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CategoryID  string          `json:"category_id,omitempty"`
	Description string          `json:"description,omitempty"`
	IsHidden    bool            `json:"is_hidden,omitempty"`
	IsRecurring bool            `json:"is_recurring,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddTransactionRequest) ToUseCaseInput(budgetID, userID, userName string) usecase.AddTransactionInput {
	return usecase.AddTransactionInput{
		BudgetID:         budgetID,
		UserID:           userID,
		UserName:         userName,
		Date:             r.Date,
		Type:             domain.TransactionType(r.Type),
		OriginalAmount:   r.Amount,
		OriginalCurrency: r.Currency,
		CategoryID:       r.CategoryID,
		Description:      r.Description,
		IsHidden:         r.IsHidden,
		IsRecurring:      r.IsRecurring,
	}
}

// UpdateTransactionRequest represents a request to edit a transaction.
type UpdateTransactionRequest struct {
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CategoryID  string          `json:"category_id,omitempty"`
	Description string          `json:"description,omitempty"`
	IsHidden    bool            `json:"is_hidden,omitempty"`
	IsRecurring bool            `json:"is_recurring,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(budgetID, txnID, userID string) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		BudgetID:         budgetID,
		TransactionID:    txnID,
		UserID:           userID,
		Date:             r.Date,
		Type:             domain.TransactionType(r.Type),
		OriginalAmount:   r.Amount,
		OriginalCurrency: r.Currency,
		CategoryID:       r.CategoryID,
		Description:      r.Description,
		IsHidden:         r.IsHidden,
		IsRecurring:      r.IsRecurring,
	}
}

// ConfirmDeleteRequest carries the token issued by a delete request.
type ConfirmDeleteRequest struct {
	Token string `json:"token"`
}

// CreateLoanRequest represents a request to record a loan.
type CreateLoanRequest struct {
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput(budgetID, userID string) usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		BudgetID: budgetID,
		UserID:   userID,
		Name:     r.Name,
		Currency: r.Currency,
		Amount:   r.Amount,
	}
}

// LoanPaymentRequest represents a payment against a loan.
type LoanPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateAssetRequest represents a request to record an asset position.
type CreateAssetRequest struct {
	Name         string          `json:"name"`
	Currency     string          `json:"currency"`
	Quantity     decimal.Decimal `json:"quantity"`
	ValuePerUnit decimal.Decimal `json:"value_per_unit"`
	IsCrypto     bool            `json:"is_crypto,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAssetRequest) ToUseCaseInput(budgetID, userID string) usecase.CreateAssetInput {
	return usecase.CreateAssetInput{
		BudgetID:     budgetID,
		UserID:       userID,
		Name:         r.Name,
		Currency:     r.Currency,
		Quantity:     r.Quantity,
		ValuePerUnit: r.ValuePerUnit,
		IsCrypto:     r.IsCrypto,
	}
}

// UpdateAssetRequest represents a request to edit an asset position.
type UpdateAssetRequest struct {
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	ValuePerUnit decimal.Decimal `json:"value_per_unit"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAssetRequest) ToUseCaseInput(budgetID, assetID string) usecase.UpdateAssetInput {
	return usecase.UpdateAssetInput{
		BudgetID:     budgetID,
		AssetID:      assetID,
		Name:         r.Name,
		Quantity:     r.Quantity,
		ValuePerUnit: r.ValuePerUnit,
	}
}
