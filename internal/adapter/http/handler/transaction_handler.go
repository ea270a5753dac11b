package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/usecase"
)

// TransactionHandler handles transaction and feed HTTP requests.
type TransactionHandler struct {
	ledgerUC *usecase.LedgerUseCase
	feedUC   *usecase.FeedUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC *usecase.LedgerUseCase, feedUC *usecase.FeedUseCase) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC, feedUC: feedUC}
}

// Add records a new transaction.
func (h *TransactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	userID, userName := identity(r)

	var req dto.AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.AddTransaction(r.Context(), req.ToUseCaseInput(budgetID, userID, userName))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to add transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	txnID := chi.URLParam(r, "txnID")
	if budgetID == "" || txnID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.ledgerUC.GetTransaction(r.Context(), budgetID, txnID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Update edits a transaction, re-pricing it with a fresh rate.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	txnID := chi.URLParam(r, "txnID")
	if budgetID == "" || txnID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	userID, _ := identity(r)

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(budgetID, txnID, userID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// RequestDelete issues a short-lived confirmation token for a delete.
func (h *TransactionHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	txnID := chi.URLParam(r, "txnID")
	if budgetID == "" || txnID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	userID, _ := identity(r)

	token, err := h.ledgerUC.RequestDelete(r.Context(), budgetID, txnID, userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to request delete", err.Error())

		return
	}

	writeJSON(w, http.StatusAccepted, dto.DeleteRequestedResponse{
		Token:     token,
		ExpiresIn: usecase.DeleteConfirmationTTL.String(),
	})
}

// ConfirmDelete consumes a confirmation token and deletes the transaction.
func (h *TransactionHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "missing token", "")
		return
	}

	if err := h.ledgerUC.ConfirmDelete(r.Context(), req.Token); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to confirm delete", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns the newest transactions of a budget, converted for display.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	input, ok := h.listInput(w, r)
	if !ok {
		return
	}

	items, err := h.feedUC.List(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list transactions", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.FeedFromUseCase(items))
}

// Totals reports the visible income and expense sums of the feed page.
func (h *TransactionHandler) Totals(w http.ResponseWriter, r *http.Request) {
	input, ok := h.listInput(w, r)
	if !ok {
		return
	}

	totals, err := h.feedUC.VisibleTotals(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to compute totals", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TotalsFromUseCase(totals))
}

// Export renders the feed page as a markdown table.
func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	input, ok := h.listInput(w, r)
	if !ok {
		return
	}

	doc, err := h.feedUC.Export(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to export transactions", err.Error())

		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

// Events streams budget change events over server-sent events.
func (h *TransactionHandler) Events(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	events, err := h.feedUC.Watch(r.Context(), budgetID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to subscribe", err.Error())

		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.EventType, payload)
			flusher.Flush()
		}
	}
}

func (h *TransactionHandler) listInput(w http.ResponseWriter, r *http.Request) (usecase.ListInput, bool) {
	budgetID := chi.URLParam(r, "id")
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return usecase.ListInput{}, false
	}

	return usecase.ListInput{
		BudgetID:        budgetID,
		Limit:           parseIntQuery(r, "limit", 0),
		DisplayCurrency: r.URL.Query().Get("display_currency"),
	}, true
}
