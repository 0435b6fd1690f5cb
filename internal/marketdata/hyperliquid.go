package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/polytrigger/polytrigger/internal/ratelimit"
)

const defaultHyperliquidURL = "https://api.hyperliquid.xyz"

// Assets the product supports, matching the parser whitelist.
var supportedAssets = map[string]bool{
	"ETH": true, "BTC": true, "SOL": true, "AVAX": true,
	"MATIC": true, "ARB": true, "OP": true,
}

// HyperliquidConfig controls the info-API client.
type HyperliquidConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	RPS        float64
	Burst      int
}

// HyperliquidClient fetches perp metadata and asset contexts from the
// Hyperliquid info endpoint.
type HyperliquidClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	maxRetries uint64
}

// NewHyperliquidClient builds a client with sane defaults.
func NewHyperliquidClient(cfg HyperliquidConfig) *HyperliquidClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultHyperliquidURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RPS
	if rps == 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst == 0 {
		burst = 4
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = 3
	}
	return &HyperliquidClient{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    ratelimit.NewLimiter(rps, burst),
		maxRetries: retries,
	}
}

// hlMeta is the first element of the metaAndAssetCtxs response.
type hlMeta struct {
	Universe []struct {
		Name        string `json:"name"`
		MaxLeverage int    `json:"maxLeverage"`
	} `json:"universe"`
}

// hlAssetCtx is one element of the second (parallel) array; numerics
// arrive as decimal strings.
type hlAssetCtx struct {
	Funding      string `json:"funding"`
	OpenInterest string `json:"openInterest"`
	MarkPx       string `json:"markPx"`
	PrevDayPx    string `json:"prevDayPx"`
	DayNtlVlm    string `json:"dayNtlVlm"`
}

// FetchTickers posts a metaAndAssetCtxs info request and normalizes the
// supported assets into PerpTicker records.
func (c *HyperliquidClient) FetchTickers(ctx context.Context) ([]PerpTicker, error) {
	if err := c.limiter.Wait(ctx, "info"); err != nil {
		return nil, err
	}

	var payload []json.RawMessage
	operation := func() error {
		return c.postInfo(ctx, `{"type":"metaAndAssetCtxs"}`, &payload)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("hyperliquid info: %w", err)
	}
	if len(payload) != 2 {
		return nil, fmt.Errorf("hyperliquid info: expected 2 elements, got %d", len(payload))
	}

	var meta hlMeta
	if err := json.Unmarshal(payload[0], &meta); err != nil {
		return nil, fmt.Errorf("hyperliquid meta decode: %w", err)
	}
	var ctxs []hlAssetCtx
	if err := json.Unmarshal(payload[1], &ctxs); err != nil {
		return nil, fmt.Errorf("hyperliquid ctxs decode: %w", err)
	}

	tickers := make([]PerpTicker, 0, len(supportedAssets))
	for i, asset := range meta.Universe {
		if !supportedAssets[asset.Name] || i >= len(ctxs) {
			continue
		}
		tickers = append(tickers, normalizeAssetCtx(asset.Name, asset.MaxLeverage, ctxs[i]))
	}

	log.Debug().Int("tickers", len(tickers)).Msg("hyperliquid tickers retrieved")
	return tickers, nil
}

func (c *HyperliquidClient) postInfo(ctx context.Context, body string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/info", bytes.NewBufferString(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("info API HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return backoff.Permanent(fmt.Errorf("info API HTTP %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return backoff.Permanent(fmt.Errorf("info API decode: %w", err))
	}
	return nil
}

func normalizeAssetCtx(name string, maxLeverage int, ctx hlAssetCtx) PerpTicker {
	mark := parseDecimal(ctx.MarkPx)
	prev := parseDecimal(ctx.PrevDayPx)
	change := 0.0
	if prev > 0 {
		change = (mark - prev) / prev * 100
	}
	return PerpTicker{
		Symbol:       name + "-PERP",
		MarkPrice:    mark,
		Change24h:    change,
		Funding:      parseDecimal(ctx.Funding),
		OpenInterest: parseDecimal(ctx.OpenInterest),
		Volume24h:    parseDecimal(ctx.DayNtlVlm),
		MaxLeverage:  maxLeverage,
		Source:       SourceLive,
	}
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
