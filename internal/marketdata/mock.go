package marketdata

import "time"

// Mock data served when an upstream is unreachable. Values are fixed so
// the demo renders identically on every fallback; only EndDate moves,
// pinned relative to a fixed epoch to keep records comparable.

var mockEpoch = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// MockEvents returns the canned Polymarket markets.
func MockEvents() []EventMarket {
	return []EventMarket{
		{
			ID:          "mock-eth-etf",
			Slug:        "ethereum-etf-approval",
			Question:    "Ethereum ETF Approval by Q3?",
			Probability: 72,
			Volume24h:   1_850_000,
			Liquidity:   420_000,
			EndDate:     mockEpoch.AddDate(0, 2, 0),
			Source:      SourceMock,
		},
		{
			ID:          "mock-fed-cut",
			Slug:        "fed-rate-cut-september",
			Question:    "Fed rate cut in September?",
			Probability: 64,
			Volume24h:   3_100_000,
			Liquidity:   980_000,
			EndDate:     mockEpoch.AddDate(0, 3, 0),
			Source:      SourceMock,
		},
		{
			ID:          "mock-btc-150k",
			Slug:        "bitcoin-above-150k",
			Question:    "Bitcoin above $150k by year end?",
			Probability: 38,
			Volume24h:   5_400_000,
			Liquidity:   1_250_000,
			EndDate:     mockEpoch.AddDate(0, 6, 0),
			Source:      SourceMock,
		},
		{
			ID:          "mock-sol-etf",
			Slug:        "solana-etf-approval",
			Question:    "Solana ETF Approval this year?",
			Probability: 55,
			Volume24h:   940_000,
			Liquidity:   310_000,
			EndDate:     mockEpoch.AddDate(0, 5, 0),
			Source:      SourceMock,
		},
	}
}

// MockTickers returns the canned perp tickers for the supported assets.
func MockTickers() []PerpTicker {
	return []PerpTicker{
		{Symbol: "BTC-PERP", MarkPrice: 118_450, Change24h: 1.8, Funding: 0.0000125, OpenInterest: 2_250_000_000, Volume24h: 8_900_000_000, MaxLeverage: 40, Source: SourceMock},
		{Symbol: "ETH-PERP", MarkPrice: 4_280, Change24h: 2.4, Funding: 0.0000131, OpenInterest: 1_430_000_000, Volume24h: 5_200_000_000, MaxLeverage: 25, Source: SourceMock},
		{Symbol: "SOL-PERP", MarkPrice: 212.5, Change24h: -0.9, Funding: 0.0000105, OpenInterest: 640_000_000, Volume24h: 1_800_000_000, MaxLeverage: 20, Source: SourceMock},
		{Symbol: "AVAX-PERP", MarkPrice: 41.2, Change24h: 0.6, Funding: 0.0000098, OpenInterest: 120_000_000, Volume24h: 310_000_000, MaxLeverage: 10, Source: SourceMock},
		{Symbol: "MATIC-PERP", MarkPrice: 0.86, Change24h: -1.4, Funding: 0.0000092, OpenInterest: 85_000_000, Volume24h: 190_000_000, MaxLeverage: 10, Source: SourceMock},
		{Symbol: "ARB-PERP", MarkPrice: 1.24, Change24h: 3.1, Funding: 0.0000110, OpenInterest: 96_000_000, Volume24h: 240_000_000, MaxLeverage: 10, Source: SourceMock},
		{Symbol: "OP-PERP", MarkPrice: 2.05, Change24h: 1.2, Funding: 0.0000104, OpenInterest: 74_000_000, Volume24h: 160_000_000, MaxLeverage: 10, Source: SourceMock},
	}
}
