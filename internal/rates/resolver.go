// Package rates resolves conversion rates between currency and asset codes.
// Fiat pairs go through a latest-rates source keyed by base code; crypto
// assets go through a price-quote source keyed by asset id. Resolved pairs
// are cached for a short TTL to bound request volume.
package rates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
	"github.com/finbook/finbook/internal/usecase"
)

// FiatSource returns the latest rates for a base currency as a map of
// target code to rate.
type FiatSource interface {
	LatestRates(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

// AssetSource returns the price of an asset id in each requested fiat code.
type AssetSource interface {
	Price(ctx context.Context, assetID string, vsCurrencies []string) (map[string]decimal.Decimal, error)
}

// Resolver implements usecase.RateResolver.
type Resolver struct {
	fiat    FiatSource
	assets  AssetSource
	cache   usecase.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// DefaultCacheTTL bounds how long a resolved pair is reused.
const DefaultCacheTTL = 5 * time.Minute

// NewResolver creates a new Resolver. cache may be nil to disable caching;
// m may be nil.
func NewResolver(fiat FiatSource, assets AssetSource, cache usecase.Cache, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Resolver{
		fiat:    fiat,
		assets:  assets,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// Resolve returns the rate from base to target. Identical codes short-circuit
// to 1 without touching the network or the cache. A pair missing from the
// source's response is ErrRateUnavailable; the caller decides whether that is
// fatal (writes) or degradable (reads).
func (r *Resolver) Resolve(ctx context.Context, base, target string, isAsset bool) (decimal.Decimal, error) {
	if strings.EqualFold(strings.TrimSpace(base), strings.TrimSpace(target)) {
		return decimal.NewFromInt(1), nil
	}

	if isAsset || domain.IsCryptoAsset(base) {
		return r.resolveAsset(ctx, base, target)
	}

	return r.resolveFiat(ctx, base, target)
}

// ResolveForDisplay is the read-path policy: any failure degrades to 1 with
// a logged warning so a flaky rate source never blocks presentation.
func (r *Resolver) ResolveForDisplay(ctx context.Context, base, target string) decimal.Decimal {
	rate, err := r.Resolve(ctx, base, target, false)
	if err != nil {
		r.logger.Warn().
			Str("base", base).
			Str("target", target).
			Err(err).
			Msg("display rate unavailable, degrading to 1")
		return decimal.NewFromInt(1)
	}
	return rate
}

func (r *Resolver) resolveFiat(ctx context.Context, base, target string) (decimal.Decimal, error) {
	base = domain.NormalizeCurrency(base)
	target = domain.NormalizeCurrency(target)

	if rate, ok := r.cached(ctx, base, target); ok {
		return rate, nil
	}

	if r.fiat == nil {
		return decimal.Zero, domain.ErrRateUnavailable
	}

	if r.metrics != nil {
		r.metrics.RateLookups.WithLabelValues("fiat").Inc()
	}

	table, err := r.fiat.LatestRates(ctx, base)
	if err != nil {
		r.countFailure("fiat")
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}

	rate, ok := table[target]
	if !ok || !rate.IsPositive() {
		r.countFailure("fiat")
		return decimal.Zero, fmt.Errorf("%w: no %s rate for base %s", domain.ErrRateUnavailable, target, base)
	}

	r.store(ctx, base, target, rate)

	return rate, nil
}

func (r *Resolver) resolveAsset(ctx context.Context, assetID, target string) (decimal.Decimal, error) {
	assetID = strings.ToLower(strings.TrimSpace(assetID))
	target = domain.NormalizeCurrency(target)

	if rate, ok := r.cached(ctx, assetID, target); ok {
		return rate, nil
	}

	if r.assets == nil {
		return decimal.Zero, domain.ErrRateUnavailable
	}

	if r.metrics != nil {
		r.metrics.RateLookups.WithLabelValues("asset").Inc()
	}

	prices, err := r.assets.Price(ctx, assetID, []string{strings.ToLower(target)})
	if err != nil {
		r.countFailure("asset")
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}

	rate, ok := prices[strings.ToLower(target)]
	if !ok || !rate.IsPositive() {
		r.countFailure("asset")
		return decimal.Zero, fmt.Errorf("%w: no %s quote for asset %s", domain.ErrRateUnavailable, target, assetID)
	}

	r.store(ctx, assetID, target, rate)

	return rate, nil
}

func (r *Resolver) countFailure(path string) {
	if r.metrics != nil {
		r.metrics.RateFailures.WithLabelValues(path).Inc()
	}
}

func cacheKey(base, target string) string {
	return fmt.Sprintf("rate:%s:%s", base, target)
}

func (r *Resolver) cached(ctx context.Context, base, target string) (decimal.Decimal, bool) {
	if r.cache == nil {
		return decimal.Zero, false
	}

	val, err := r.cache.Get(ctx, cacheKey(base, target))
	if err != nil || val == "" {
		if r.metrics != nil {
			r.metrics.RateCacheMiss.Inc()
		}
		return decimal.Zero, false
	}

	rate, err := decimal.NewFromString(val)
	if err != nil || !rate.IsPositive() {
		if r.metrics != nil {
			r.metrics.RateCacheMiss.Inc()
		}
		return decimal.Zero, false
	}

	if r.metrics != nil {
		r.metrics.RateCacheHits.Inc()
	}

	return rate, true
}

func (r *Resolver) store(ctx context.Context, base, target string, rate decimal.Decimal) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(base, target), rate.String(), r.ttl); err != nil {
		r.logger.Debug().Err(err).Msg("rate cache write failed")
	}
}
