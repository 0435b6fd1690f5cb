package marketdata

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hlFixture = `[
	{
		"universe": [
			{"name": "BTC", "maxLeverage": 40},
			{"name": "ETH", "maxLeverage": 25},
			{"name": "DOGE", "maxLeverage": 10}
		]
	},
	[
		{"funding": "0.0000125", "openInterest": "2250000000", "markPx": "118450", "prevDayPx": "116355.6", "dayNtlVlm": "8900000000"},
		{"funding": "0.0000131", "openInterest": "1430000000", "markPx": "4280", "prevDayPx": "4280", "dayNtlVlm": "5200000000"},
		{"funding": "0.0000090", "openInterest": "50000000", "markPx": "0.2", "prevDayPx": "0.19", "dayNtlVlm": "90000000"}
	]
]`

func newInfoTestClient(baseURL string) *HyperliquidClient {
	return NewHyperliquidClient(HyperliquidConfig{
		BaseURL:    baseURL,
		MaxRetries: 1,
		RPS:        1000,
		Burst:      1000,
	})
}

func TestHyperliquidClient_FetchTickers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/info", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"type":"metaAndAssetCtxs"}`, string(body))
		w.Write([]byte(hlFixture))
	}))
	defer srv.Close()

	tickers, err := newInfoTestClient(srv.URL).FetchTickers(context.Background())
	require.NoError(t, err)

	// DOGE is not a supported asset and must be dropped.
	require.Len(t, tickers, 2)

	btc := tickers[0]
	assert.Equal(t, "BTC-PERP", btc.Symbol)
	assert.Equal(t, 118450.0, btc.MarkPrice)
	assert.InDelta(t, 1.8, btc.Change24h, 0.01)
	assert.Equal(t, 0.0000125, btc.Funding)
	assert.Equal(t, 2_250_000_000.0, btc.OpenInterest)
	assert.Equal(t, 40, btc.MaxLeverage)
	assert.Equal(t, SourceLive, btc.Source)

	eth := tickers[1]
	assert.Equal(t, "ETH-PERP", eth.Symbol)
	assert.Equal(t, 0.0, eth.Change24h, "flat day yields zero change")
}

func TestHyperliquidClient_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"universe": []}]`))
	}))
	defer srv.Close()

	_, err := newInfoTestClient(srv.URL).FetchTickers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 elements")
}

func TestNormalizeAssetCtx_BadDecimalsDegradeToZero(t *testing.T) {
	ticker := normalizeAssetCtx("ETH", 25, hlAssetCtx{
		Funding:      "garbage",
		OpenInterest: "",
		MarkPx:       "4280",
		PrevDayPx:    "0",
		DayNtlVlm:    "5200000000",
	})

	assert.Equal(t, 0.0, ticker.Funding)
	assert.Equal(t, 0.0, ticker.OpenInterest)
	assert.Equal(t, 0.0, ticker.Change24h, "zero previous price must not divide")
	assert.Equal(t, 4280.0, ticker.MarkPrice)
}
