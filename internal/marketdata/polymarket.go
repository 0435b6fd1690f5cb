package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/polytrigger/polytrigger/internal/ratelimit"
)

const defaultGammaURL = "https://gamma-api.polymarket.com"

// PolymarketConfig controls the gamma-API client.
type PolymarketConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	RPS        float64
	Burst      int
}

// PolymarketClient fetches open prediction markets from the gamma API.
type PolymarketClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	maxRetries uint64
}

// NewPolymarketClient builds a client with sane defaults.
func NewPolymarketClient(cfg PolymarketConfig) *PolymarketClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultGammaURL
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
	return &PolymarketClient{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    ratelimit.NewLimiter(rps, burst),
		maxRetries: retries,
	}
}

// gammaMarket mirrors the gamma /markets payload; most numerics arrive
// as strings there.
type gammaMarket struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Slug          string    `json:"slug"`
	OutcomePrices string    `json:"outcomePrices"`
	Volume24hr    flexFloat `json:"volume24hr"`
	Liquidity     flexFloat `json:"liquidity"`
	EndDate       string    `json:"endDate"`
	Closed        bool      `json:"closed"`
	Active        bool      `json:"active"`
}

// flexFloat tolerates gamma's habit of sending numerics either as JSON
// numbers or as quoted strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// FetchMarkets returns up to limit open markets ordered by 24h volume,
// normalized into EventMarket records. Transient failures are retried
// with exponential backoff before the error is surfaced.
func (c *PolymarketClient) FetchMarkets(ctx context.Context, limit int) ([]EventMarket, error) {
	if limit <= 0 {
		limit = 20
	}
	if err := c.limiter.Wait(ctx, "gamma"); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL + "/markets")
	if err != nil {
		return nil, fmt.Errorf("polymarket base url: %w", err)
	}
	q := u.Query()
	q.Set("closed", "false")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order", "volume24hr")
	q.Set("ascending", "false")
	u.RawQuery = q.Encode()

	var raw []gammaMarket
	operation := func() error {
		return c.getJSON(ctx, u.String(), &raw)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("polymarket markets: %w", err)
	}

	markets := make([]EventMarket, 0, len(raw))
	for _, m := range raw {
		if m.Closed || !m.Active {
			continue
		}
		markets = append(markets, normalizeGammaMarket(m))
	}

	log.Debug().Int("markets", len(markets)).Msg("polymarket markets retrieved")
	return markets, nil
}

func (c *PolymarketClient) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("gamma API HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return backoff.Permanent(fmt.Errorf("gamma API HTTP %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return backoff.Permanent(fmt.Errorf("gamma API decode: %w", err))
	}
	return nil
}

func normalizeGammaMarket(m gammaMarket) EventMarket {
	ev := EventMarket{
		ID:          m.ID,
		Slug:        m.Slug,
		Question:    m.Question,
		Probability: yesProbability(m.OutcomePrices),
		Volume24h:   float64(m.Volume24hr),
		Liquidity:   float64(m.Liquidity),
		Source:      SourceLive,
	}
	if m.EndDate != "" {
		if ts, err := time.Parse(time.RFC3339, m.EndDate); err == nil {
			ev.EndDate = ts
		}
	}
	return ev
}

// yesProbability decodes the outcomePrices field, a JSON array of
// decimal strings encoded as a string ("[\"0.75\", \"0.25\"]"), and
// converts the first (YES) price into a 0-100 probability.
func yesProbability(outcomePrices string) float64 {
	if outcomePrices == "" {
		return 0
	}
	var prices []string
	if err := json.Unmarshal([]byte(outcomePrices), &prices); err != nil || len(prices) == 0 {
		return 0
	}
	yes, err := strconv.ParseFloat(prices[0], 64)
	if err != nil {
		return 0
	}
	return yes * 100
}
