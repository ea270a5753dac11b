package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/internal/usecase/mocks"
)

func newAssetUseCase() (*usecase.AssetUseCase, *mocks.MockAssetRepository, *mocks.MockRateResolver) {
	repo := mocks.NewMockAssetRepository()
	resolver := mocks.NewMockRateResolver()
	return usecase.NewAssetUseCase(repo, resolver, mocks.NewMockIDGenerator()), repo, resolver
}

func TestAssetUseCase_CreateAsset(t *testing.T) {
	uc, _, _ := newAssetUseCase()

	asset, err := uc.CreateAsset(context.Background(), usecase.CreateAssetInput{
		BudgetID:     "budget-1",
		UserID:       "user-1",
		Name:         "Cold wallet",
		Currency:     "bitcoin",
		Quantity:     decimal.NewFromFloat(0.5),
		ValuePerUnit: decimal.NewFromInt(60000),
	})
	if err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}
	if !asset.IsCrypto {
		t.Error("bitcoin position should be flagged crypto")
	}
	if !asset.TotalValue().Equal(decimal.NewFromInt(30000)) {
		t.Errorf("TotalValue() = %s, want 30000", asset.TotalValue())
	}

	_, err = uc.CreateAsset(context.Background(), usecase.CreateAssetInput{
		BudgetID: "budget-1",
		Quantity: decimal.NewFromInt(-1),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("negative quantity error = %v, want ErrInvalidAmount", err)
	}
}

func TestAssetUseCase_UpdateAsset(t *testing.T) {
	uc, repo, _ := newAssetUseCase()
	ctx := context.Background()
	repo.Create(ctx, &domain.Asset{
		ID:           "asset-1",
		BudgetID:     "budget-1",
		Name:         "Savings",
		Currency:     "USD",
		Quantity:     decimal.NewFromInt(1),
		ValuePerUnit: decimal.NewFromInt(1000),
	})

	asset, err := uc.UpdateAsset(ctx, usecase.UpdateAssetInput{
		BudgetID:     "budget-1",
		AssetID:      "asset-1",
		Quantity:     decimal.NewFromInt(2),
		ValuePerUnit: decimal.NewFromInt(1200),
	})
	if err != nil {
		t.Fatalf("UpdateAsset() error = %v", err)
	}
	if asset.Name != "Savings" {
		t.Errorf("empty name should keep existing, got %q", asset.Name)
	}
	if !asset.TotalValue().Equal(decimal.NewFromInt(2400)) {
		t.Errorf("TotalValue() = %s, want 2400", asset.TotalValue())
	}

	_, err = uc.UpdateAsset(ctx, usecase.UpdateAssetInput{BudgetID: "budget-1", AssetID: "missing"})
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("missing asset error = %v, want ErrAssetNotFound", err)
	}
}

func TestAssetUseCase_DeleteAsset(t *testing.T) {
	uc, repo, _ := newAssetUseCase()
	ctx := context.Background()
	repo.Create(ctx, &domain.Asset{ID: "asset-1", BudgetID: "budget-1"})

	if err := uc.DeleteAsset(ctx, "budget-1", "asset-1"); err != nil {
		t.Fatalf("DeleteAsset() error = %v", err)
	}
	if err := uc.DeleteAsset(ctx, "budget-1", "asset-1"); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("second delete error = %v, want ErrAssetNotFound", err)
	}
}

func TestAssetUseCase_SummarizeAssets(t *testing.T) {
	uc, repo, resolver := newAssetUseCase()
	ctx := context.Background()

	repo.Create(ctx, &domain.Asset{ID: "a1", BudgetID: "budget-1", Currency: "USD", Quantity: decimal.NewFromInt(1), ValuePerUnit: decimal.NewFromInt(500)})
	repo.Create(ctx, &domain.Asset{ID: "a2", BudgetID: "budget-1", Currency: "USD", Quantity: decimal.NewFromInt(3), ValuePerUnit: decimal.NewFromInt(100)})
	repo.Create(ctx, &domain.Asset{ID: "a3", BudgetID: "budget-1", Currency: "bitcoin", IsCrypto: true, Quantity: decimal.NewFromFloat(0.1), ValuePerUnit: decimal.NewFromInt(60000)})

	groups, err := uc.SummarizeAssets(ctx, "budget-1", "")
	if err != nil {
		t.Fatalf("SummarizeAssets() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	byCurrency := make(map[string]usecase.AssetGroup)
	for _, g := range groups {
		byCurrency[g.Currency] = g
	}
	if usd := byCurrency["USD"]; !usd.Total.Equal(decimal.NewFromInt(800)) || usd.Count != 2 {
		t.Errorf("USD group = %s/%d, want 800/2", usd.Total, usd.Count)
	}

	resolver.SetRate("USD", "EUR", decimal.NewFromFloat(0.9))
	resolver.SetRate("bitcoin", "EUR", decimal.NewFromFloat(0.00002))

	groups, err = uc.SummarizeAssets(ctx, "budget-1", "EUR")
	if err != nil {
		t.Fatalf("SummarizeAssets(EUR) error = %v", err)
	}
	byCurrency = make(map[string]usecase.AssetGroup)
	for _, g := range groups {
		byCurrency[g.Currency] = g
	}
	if usd := byCurrency["USD"]; !usd.DisplayTotal.Equal(decimal.NewFromInt(720)) || usd.DisplayCurrency != "EUR" {
		t.Errorf("USD display = %s %s, want 720 EUR", usd.DisplayTotal, usd.DisplayCurrency)
	}
	if btc := byCurrency["bitcoin"]; !btc.DisplayTotal.Equal(decimal.NewFromFloat(0.12)) {
		t.Errorf("bitcoin display = %s, want 0.12", btc.DisplayTotal)
	}
}
