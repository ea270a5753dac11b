package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// AssetUseCase handles assets: positions valued in their own currency,
// summed per currency group at read time, never part of the budget balance.
type AssetUseCase struct {
	assetRepo AssetRepository
	resolver  RateResolver
	idGen     IDGenerator
}

// NewAssetUseCase creates a new AssetUseCase.
func NewAssetUseCase(assetRepo AssetRepository, resolver RateResolver, idGen IDGenerator) *AssetUseCase {
	return &AssetUseCase{assetRepo: assetRepo, resolver: resolver, idGen: idGen}
}

// CreateAssetInput represents input for creating an asset.
type CreateAssetInput struct {
	BudgetID     string
	UserID       string
	Name         string
	Currency     string
	Quantity     decimal.Decimal
	ValuePerUnit decimal.Decimal
	IsCrypto     bool
}

// CreateAsset records a new asset position.
func (uc *AssetUseCase) CreateAsset(ctx context.Context, input CreateAssetInput) (*domain.Asset, error) {
	if input.BudgetID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if input.Quantity.IsNegative() || input.ValuePerUnit.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	asset := &domain.Asset{
		ID:           uc.idGen.Generate(),
		BudgetID:     input.BudgetID,
		Name:         input.Name,
		Currency:     input.Currency,
		Quantity:     input.Quantity,
		ValuePerUnit: input.ValuePerUnit,
		IsCrypto:     input.IsCrypto || domain.IsCryptoAsset(input.Currency),
		UserID:       input.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// UpdateAssetInput represents input for editing an asset.
type UpdateAssetInput struct {
	BudgetID     string
	AssetID      string
	Name         string
	Quantity     decimal.Decimal
	ValuePerUnit decimal.Decimal
}

// UpdateAsset edits quantity, unit value or name of a position.
func (uc *AssetUseCase) UpdateAsset(ctx context.Context, input UpdateAssetInput) (*domain.Asset, error) {
	if input.BudgetID == "" || input.AssetID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if input.Quantity.IsNegative() || input.ValuePerUnit.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	asset, err := uc.assetRepo.GetByID(ctx, input.BudgetID, input.AssetID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		asset.Name = input.Name
	}
	asset.Quantity = input.Quantity
	asset.ValuePerUnit = input.ValuePerUnit
	asset.UpdatedAt = time.Now().UTC()

	if err := uc.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// DeleteAsset removes a position. Hard delete, no tombstone.
func (uc *AssetUseCase) DeleteAsset(ctx context.Context, budgetID, id string) error {
	if budgetID == "" || id == "" {
		return domain.ErrMissingIdentifier
	}
	return uc.assetRepo.Delete(ctx, budgetID, id)
}

// SummarizeAssets groups a budget's assets by currency, with an optional
// display-currency valuation resolved through the read-path rate policy
// (crypto positions go through the asset quote source).
func (uc *AssetUseCase) SummarizeAssets(ctx context.Context, budgetID, displayCurrency string) ([]AssetGroup, error) {
	if budgetID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	assets, err := uc.assetRepo.ListByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*AssetGroup)
	order := make([]string, 0)
	for _, asset := range assets {
		g, ok := groups[asset.Currency]
		if !ok {
			g = &AssetGroup{Currency: asset.Currency, Total: decimal.Zero}
			groups[asset.Currency] = g
			order = append(order, asset.Currency)
		}
		g.Total = g.Total.Add(asset.TotalValue())
		g.Count++

		if displayCurrency != "" {
			rate := decimal.NewFromInt(1)
			if !asset.IsCrypto {
				rate = uc.resolver.ResolveForDisplay(ctx, asset.Currency, displayCurrency)
			} else if r, err := uc.resolver.Resolve(ctx, asset.Currency, displayCurrency, true); err == nil {
				rate = r
			}
			g.DisplayTotal = g.DisplayTotal.Add(asset.TotalValue().Mul(rate))
			g.DisplayCurrency = domain.NormalizeCurrency(displayCurrency)
		}
	}

	result := make([]AssetGroup, 0, len(order))
	for _, cur := range order {
		result = append(result, *groups[cur])
	}

	return result, nil
}

// AssetGroup is a per-currency asset summary.
type AssetGroup struct {
	Currency        string
	Total           decimal.Decimal
	Count           int
	DisplayTotal    decimal.Decimal
	DisplayCurrency string
}
