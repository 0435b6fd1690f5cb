// Package marketdata serves Polymarket prediction markets and
// Hyperliquid perp tickers with caching, resilience guards and
// deterministic mock fallbacks. The demo frontend must always have
// something to render, so the public accessors never fail: when an
// upstream is down the service degrades to canned data flagged with
// Source "mock".
package marketdata

import "time"

// Data sources stamped on every record.
const (
	SourceLive = "live"
	SourceMock = "mock"
)

// EventMarket is a normalized Polymarket market: one question with a
// YES probability derived from its outcome prices.
type EventMarket struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Question    string    `json:"question"`
	Probability float64   `json:"probability"` // 0-100
	Volume24h   float64   `json:"volume24h"`
	Liquidity   float64   `json:"liquidity"`
	EndDate     time.Time `json:"endDate,omitempty"`
	Source      string    `json:"source"`
}

// PerpTicker is a normalized Hyperliquid perpetual ticker for one of
// the supported assets.
type PerpTicker struct {
	Symbol       string  `json:"symbol"` // e.g. ETH-PERP
	MarkPrice    float64 `json:"markPrice"`
	Change24h    float64 `json:"change24h"` // percent vs previous day
	Funding      float64 `json:"funding"`
	OpenInterest float64 `json:"openInterest"`
	Volume24h    float64 `json:"volume24h"`
	MaxLeverage  int     `json:"maxLeverage"`
	Source       string  `json:"source"`
}
