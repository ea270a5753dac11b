package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/usecase"
)

// AssetHandler handles asset-related HTTP requests.
type AssetHandler struct {
	assetUC *usecase.AssetUseCase
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetUC *usecase.AssetUseCase) *AssetHandler {
	return &AssetHandler{assetUC: assetUC}
}

// Create records a new asset position.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	userID, _ := identity(r)

	var req dto.CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	asset, err := h.assetUC.CreateAsset(r.Context(), req.ToUseCaseInput(budgetID, userID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create asset", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.AssetFromDomain(asset))
}

// Update edits an asset position.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	assetID := chi.URLParam(r, "assetID")
	if budgetID == "" || assetID == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	var req dto.UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	asset, err := h.assetUC.UpdateAsset(r.Context(), req.ToUseCaseInput(budgetID, assetID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update asset", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AssetFromDomain(asset))
}

// Delete removes an asset position.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	assetID := chi.URLParam(r, "assetID")
	if budgetID == "" || assetID == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	if err := h.assetUC.DeleteAsset(r.Context(), budgetID, assetID); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete asset", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary groups a budget's assets by currency with a display valuation.
func (h *AssetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "id")
	if budgetID == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	displayCurrency := r.URL.Query().Get("display_currency")

	groups, err := h.assetUC.SummarizeAssets(r.Context(), budgetID, displayCurrency)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to summarize assets", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AssetGroupsFromUseCase(groups))
}
