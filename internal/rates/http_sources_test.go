package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiatClient_LatestRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/EUR", r.URL.Path)
		w.Write([]byte(`{"result":"success","rates":{"USD":1.1,"GBP":0.85}}`))
	}))
	defer srv.Close()

	c := NewFiatClient(srv.URL, 0)

	rates, err := c.LatestRates(context.Background(), "eur")
	require.NoError(t, err)
	assert.True(t, rates["USD"].Equal(decimal.RequireFromString("1.1")))
	assert.True(t, rates["GBP"].Equal(decimal.RequireFromString("0.85")))
}

func TestFiatClient_LatestRates_Errors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewFiatClient(srv.URL, 0).LatestRates(context.Background(), "EUR")
		assert.Error(t, err)
	})

	t.Run("empty rate table", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rates":{}}`))
		}))
		defer srv.Close()

		_, err := NewFiatClient(srv.URL, 0).LatestRates(context.Background(), "EUR")
		assert.Error(t, err)
	})
}

func TestAssetClient_Price(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd,eur", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"bitcoin":{"usd":64000.5,"eur":59000}}`))
	}))
	defer srv.Close()

	c := NewAssetClient(srv.URL, 0)

	prices, err := c.Price(context.Background(), "Bitcoin", []string{"USD", "EUR"})
	require.NoError(t, err)
	assert.True(t, prices["usd"].Equal(decimal.RequireFromString("64000.5")))
}

func TestAssetClient_Price_UnknownAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewAssetClient(srv.URL, 0).Price(context.Background(), "notacoin", []string{"usd"})
	assert.Error(t, err)
}
