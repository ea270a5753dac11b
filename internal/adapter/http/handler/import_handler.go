package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbook/finbook/internal/usecase"
)

// maxStatementSize caps uploaded statement files at 16 MiB.
const maxStatementSize = 16 << 20

// ImportHandler handles statement upload requests.
type ImportHandler struct {
	importUC *usecase.ImportUseCase
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC *usecase.ImportUseCase) *ImportHandler {
	return &ImportHandler{importUC: importUC}
}

// ImportStatement ingests an uploaded CSV statement into a budget. The file
// is sent as the "statement" part of a multipart form; the "source" field
// names the originating bank.
func (h *ImportHandler) ImportStatement(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	userID, userName := identity(r)

	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}

	file, _, err := r.FormFile("statement")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing statement file", err.Error())
		return
	}
	defer file.Close()

	source := r.FormValue("source")
	if source == "" {
		source = "statement"
	}

	result, err := h.importUC.ImportStatement(r.Context(), usecase.ImportInput{
		BudgetID: budgetID,
		UserID:   userID,
		UserName: userName,
		Source:   source,
		Reader:   file,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to import statement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, result)
}
