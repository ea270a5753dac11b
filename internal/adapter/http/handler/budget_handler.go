package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/usecase"
)

// BudgetHandler handles budget-related HTTP requests.
type BudgetHandler struct {
	budgetUC *usecase.BudgetUseCase
	ledgerUC *usecase.LedgerUseCase
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC *usecase.BudgetUseCase, ledgerUC *usecase.LedgerUseCase) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC, ledgerUC: ledgerUC}
}

// Create creates a new budget.
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := identity(r)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user identity", "")
		return
	}

	var req dto.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	budget, err := h.budgetUC.CreateBudget(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create budget", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.BudgetFromDomain(budget))
}

// Get retrieves a budget by ID.
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	budget, err := h.budgetUC.GetBudget(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get budget", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromDomain(budget))
}

// List lists the budgets the caller owns or collaborates on.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := identity(r)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user identity", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	budgets, err := h.budgetUC.ListBudgets(r.Context(), usecase.ListBudgetsInput{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list budgets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetsFromDomain(budgets))
}

// RecalculateBalance rebuilds the balance aggregate from the transaction log.
func (h *BudgetHandler) RecalculateBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	balance, err := h.ledgerUC.RecalculateBalance(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to recalculate balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{BudgetID: id, Balance: balance})
}

// ClearHistory deletes all transactions of a budget and zeroes its balance.
func (h *BudgetHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	userID, _ := identity(r)

	if err := h.ledgerUC.ClearHistory(r.Context(), id, userID); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to clear history", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
