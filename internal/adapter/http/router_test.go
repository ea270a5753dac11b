package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/adapter/http/handler"
	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/internal/usecase/mocks"
)

type routerFixture struct {
	budgetRepo *mocks.MockBudgetRepository
	txnRepo    *mocks.MockTransactionRepository
	router     http.Handler
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		budgetRepo: mocks.NewMockBudgetRepository(),
		txnRepo:    mocks.NewMockTransactionRepository(),
	}

	resolver := mocks.NewMockRateResolver()
	events := mocks.NewMockEventBus()
	idGen := mocks.NewMockIDGenerator()
	retrier := mocks.NewMockRetrier()
	txManager := mocks.NewMockTransactionManager()

	ledgerUC := usecase.NewLedgerUseCase(
		txManager, f.budgetRepo, f.txnRepo, resolver, idGen, retrier,
		mocks.NewMockConfirmationStore(), events, nil, zerolog.Nop(),
	)
	budgetUC := usecase.NewBudgetUseCase(f.budgetRepo, idGen)
	importUC := usecase.NewImportUseCase(
		txManager, f.budgetRepo, f.txnRepo, resolver, idGen, retrier,
		nil, events, nil, zerolog.Nop(),
	)
	feedUC := usecase.NewFeedUseCase(f.budgetRepo, f.txnRepo, resolver, events)
	loanUC := usecase.NewLoanUseCase(mocks.NewMockLoanRepository(), idGen)
	assetUC := usecase.NewAssetUseCase(mocks.NewMockAssetRepository(), resolver, idGen)
	categoryUC := usecase.NewCategoryUseCase(mocks.NewMockCategoryRepository())

	f.router = NewRouter(RouterConfig{
		BudgetHandler:      handler.NewBudgetHandler(budgetUC, ledgerUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC, feedUC),
		ImportHandler:      handler.NewImportHandler(importUC),
		LoanHandler:        handler.NewLoanHandler(loanUC),
		AssetHandler:       handler.NewAssetHandler(assetUC),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
		Logger:             zerolog.Nop(),
	})

	return f
}

func (f *routerFixture) do(method, path, body, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("X-User-Name", "Test User")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthEndpointAvailable(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestRouter_MetricsEndpointAvailable(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestRouter_BudgetLifecycle(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/api/v1/budgets", `{"name":"Family","currency":"USD"}`, "user-1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created dto.BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" || created.Name != "Family" {
		t.Fatalf("unexpected budget response: %+v", created)
	}

	rec = f.do(http.MethodGet, "/api/v1/budgets/"+created.ID, "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/api/v1/budgets", "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var budgets []dto.BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &budgets); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}
}

func TestRouter_CreateBudgetWithoutIdentity(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/api/v1/budgets", `{"name":"Family","currency":"USD"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without identity headers, got %d", rec.Code)
	}
}

func TestRouter_AddTransactionMovesBalance(t *testing.T) {
	f := newRouterFixture()
	ctx := context.Background()
	f.budgetRepo.Create(ctx, &domain.Budget{
		ID:             "budget-1",
		Name:           "Family",
		Currency:       "USD",
		CurrentBalance: decimal.Zero,
		OwnerID:        "user-1",
	})

	body := `{"type":"expense","amount":"25.50","currency":"USD","category_id":"groceries","description":"Market"}`
	rec := f.do(http.MethodPost, "/api/v1/budgets/budget-1/transactions", body, "user-1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	budget, err := f.budgetRepo.GetByID(ctx, "budget-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !budget.CurrentBalance.Equal(decimal.NewFromFloat(-25.5)) {
		t.Fatalf("balance = %s, want -25.5", budget.CurrentBalance)
	}
}

func TestRouter_OutsiderGetsForbidden(t *testing.T) {
	f := newRouterFixture()
	f.budgetRepo.Create(context.Background(), &domain.Budget{
		ID:       "budget-1",
		Name:     "Family",
		Currency: "USD",
		OwnerID:  "user-1",
	})

	body := `{"type":"expense","amount":"10","currency":"USD"}`
	rec := f.do(http.MethodPost, "/api/v1/budgets/budget-1/transactions", body, "outsider")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UnknownBudgetGetsNotFound(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/api/v1/budgets/missing", "", "user-1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
