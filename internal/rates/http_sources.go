package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRequestTimeout bounds a single remote rate lookup so a stalled
// source cannot block a ledger write indefinitely.
const DefaultRequestTimeout = 10 * time.Second

// FiatClient fetches latest fiat rates from an open.er-api.com style
// endpoint: GET {base}/latest/{CODE} returning {"rates": {"EUR": 0.91, ...}}.
type FiatClient struct {
	baseURL string
	client  *http.Client
}

// NewFiatClient creates a new FiatClient.
func NewFiatClient(baseURL string, timeout time.Duration) *FiatClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &FiatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type fiatResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// LatestRates implements FiatSource.
func (c *FiatClient) LatestRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/latest/%s", c.baseURL, url.PathEscape(strings.ToUpper(base)))

	var out fiatResponse
	if err := c.getJSON(ctx, addr, &out); err != nil {
		return nil, err
	}
	if len(out.Rates) == 0 {
		return nil, fmt.Errorf("empty rate table for base %s", base)
	}

	return out.Rates, nil
}

func (c *FiatClient) getJSON(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot GET %s: %s", addr, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(data)
}

// AssetClient fetches crypto prices from a coingecko-style simple-price
// endpoint: GET /simple/price?ids={id}&vs_currencies={codes} returning
// {"bitcoin": {"eur": 61234.5}}.
type AssetClient struct {
	baseURL string
	client  *http.Client
}

// NewAssetClient creates a new AssetClient.
func NewAssetClient(baseURL string, timeout time.Duration) *AssetClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &AssetClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Price implements AssetSource.
func (c *AssetClient) Price(ctx context.Context, assetID string, vsCurrencies []string) (map[string]decimal.Decimal, error) {
	q := url.Values{}
	q.Set("ids", strings.ToLower(assetID))
	q.Set("vs_currencies", strings.ToLower(strings.Join(vsCurrencies, ",")))
	addr := fmt.Sprintf("%s/simple/price?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot GET %s: %s", addr, resp.Status)
	}

	var out map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	prices, ok := out[strings.ToLower(assetID)]
	if !ok {
		return nil, fmt.Errorf("no quote for asset %s", assetID)
	}

	return prices, nil
}
