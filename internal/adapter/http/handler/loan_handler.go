package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/usecase"
)

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC *usecase.LoanUseCase
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC *usecase.LoanUseCase) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Create records a new loan.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	userID, _ := identity(r)

	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput(budgetID, userID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create loan", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// RecordPayment applies a payment against a loan's balance.
func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	loanID := chi.URLParam(r, "loanID")
	if budgetID == "" || loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	var req dto.LoanPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.RecordPayment(r.Context(), budgetID, loanID, req.Amount)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record payment", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Delete removes a loan.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	loanID := chi.URLParam(r, "loanID")
	if budgetID == "" || loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	if err := h.loanUC.DeleteLoan(r.Context(), budgetID, loanID); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete loan", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary groups a budget's loans by currency.
func (h *LoanHandler) Summary(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	groups, err := h.loanUC.SummarizeLoans(r.Context(), budgetID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to summarize loans", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyGroupsFromUseCase(groups))
}
