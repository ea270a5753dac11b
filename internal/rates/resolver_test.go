package rates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/rates"
	ratemocks "github.com/finbook/finbook/internal/rates/mocks"
	"github.com/finbook/finbook/internal/usecase/mocks"
)

func TestResolver_Resolve_Fiat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fiat := ratemocks.NewMockFiatSource(ctrl)
	fiat.EXPECT().LatestRates(gomock.Any(), "EUR").Return(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.1"),
		"GBP": decimal.RequireFromString("0.85"),
	}, nil)

	r := rates.NewResolver(fiat, nil, mocks.NewMockCache(), 0, nil, zerolog.Nop())

	rate, err := r.Resolve(context.Background(), "eur", "usd", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("1.1")) {
		t.Errorf("expected 1.1, got %s", rate)
	}
}

func TestResolver_Resolve_IdentityShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No source call expected at all.
	fiat := ratemocks.NewMockFiatSource(ctrl)

	r := rates.NewResolver(fiat, nil, nil, 0, nil, zerolog.Nop())

	rate, err := r.Resolve(context.Background(), "USD", " usd ", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", rate)
	}
}

func TestResolver_Resolve_CachesLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fiat := ratemocks.NewMockFiatSource(ctrl)
	// A single upstream call serves both resolves.
	fiat.EXPECT().LatestRates(gomock.Any(), "EUR").Return(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.1"),
	}, nil).Times(1)

	r := rates.NewResolver(fiat, nil, mocks.NewMockCache(), 0, nil, zerolog.Nop())

	for i := 0; i < 2; i++ {
		rate, err := r.Resolve(context.Background(), "EUR", "USD", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rate.Equal(decimal.RequireFromString("1.1")) {
			t.Errorf("expected 1.1, got %s", rate)
		}
	}
}

func TestResolver_Resolve_MissingPair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fiat := ratemocks.NewMockFiatSource(ctrl)
	fiat.EXPECT().LatestRates(gomock.Any(), "EUR").Return(map[string]decimal.Decimal{
		"GBP": decimal.RequireFromString("0.85"),
	}, nil)

	r := rates.NewResolver(fiat, nil, nil, 0, nil, zerolog.Nop())

	_, err := r.Resolve(context.Background(), "EUR", "USD", false)
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestResolver_Resolve_SourceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fiat := ratemocks.NewMockFiatSource(ctrl)
	fiat.EXPECT().LatestRates(gomock.Any(), "EUR").Return(nil, errors.New("remote down"))

	r := rates.NewResolver(fiat, nil, nil, 0, nil, zerolog.Nop())

	_, err := r.Resolve(context.Background(), "EUR", "USD", false)
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestResolver_Resolve_Asset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	assets := ratemocks.NewMockAssetSource(ctrl)
	assets.EXPECT().Price(gomock.Any(), "bitcoin", []string{"usd"}).Return(map[string]decimal.Decimal{
		"usd": decimal.RequireFromString("64000"),
	}, nil)

	r := rates.NewResolver(nil, assets, nil, 0, nil, zerolog.Nop())

	// "bitcoin" is a known crypto id; the asset branch is taken automatically.
	rate, err := r.Resolve(context.Background(), "bitcoin", "USD", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("64000")) {
		t.Errorf("expected 64000, got %s", rate)
	}
}

func TestResolver_ResolveForDisplay_Degrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fiat := ratemocks.NewMockFiatSource(ctrl)
	fiat.EXPECT().LatestRates(gomock.Any(), "EUR").Return(nil, errors.New("remote down"))

	r := rates.NewResolver(fiat, nil, nil, 0, nil, zerolog.Nop())

	rate := r.ResolveForDisplay(context.Background(), "EUR", "USD")
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected degraded rate 1, got %s", rate)
	}
}
