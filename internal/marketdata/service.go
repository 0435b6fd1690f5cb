package marketdata

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/polytrigger/polytrigger/internal/metrics"
)

const (
	cacheKeyEvents  = "polytrigger:markets:events"
	cacheKeyTickers = "polytrigger:markets:tickers"

	upstreamPolymarket  = "polymarket"
	upstreamHyperliquid = "hyperliquid"
)

// Service is the public market-data surface: cache first, then the
// upstream behind a circuit breaker, then mock data. Events and Tickers
// never return an error; the demo always gets something to render.
type Service struct {
	polymarket  *PolymarketClient
	hyperliquid *HyperliquidClient
	cache       Cache
	ttl         time.Duration
	eventLimit  int

	polymarketBreaker  *gobreaker.CircuitBreaker
	hyperliquidBreaker *gobreaker.CircuitBreaker

	metrics *metrics.Registry
}

// ServiceConfig wires the service. Cache may be nil; Metrics may be nil.
type ServiceConfig struct {
	Polymarket  *PolymarketClient
	Hyperliquid *HyperliquidClient
	Cache       Cache
	CacheTTL    time.Duration
	EventLimit  int
	Metrics     *metrics.Registry
}

// NewService assembles the market-data service with one circuit breaker
// per upstream, tuned the same way for both: trip after 3 consecutive
// failures, probe again after 30s.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	limit := cfg.EventLimit
	if limit == 0 {
		limit = 20
	}
	return &Service{
		polymarket:         cfg.Polymarket,
		hyperliquid:        cfg.Hyperliquid,
		cache:              cfg.Cache,
		ttl:                ttl,
		eventLimit:         limit,
		polymarketBreaker:  newBreaker(upstreamPolymarket),
		hyperliquidBreaker: newBreaker(upstreamHyperliquid),
		metrics:            cfg.Metrics,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// Events returns current Polymarket markets: cached copy if fresh,
// otherwise the upstream, otherwise the canned mock set.
func (s *Service) Events(ctx context.Context) []EventMarket {
	var cached []EventMarket
	if s.cacheGet(ctx, cacheKeyEvents, "events", &cached) {
		return cached
	}

	result, err := s.polymarketBreaker.Execute(func() (any, error) {
		return s.polymarket.FetchMarkets(ctx, s.eventLimit)
	})
	if err != nil {
		s.recordUpstream(upstreamPolymarket, false)
		log.Warn().Err(err).Msg("polymarket unavailable, serving mock events")
		return MockEvents()
	}
	s.recordUpstream(upstreamPolymarket, true)

	events := result.([]EventMarket)
	if len(events) == 0 {
		s.recordFallback(upstreamPolymarket)
		return MockEvents()
	}
	s.cacheSet(ctx, cacheKeyEvents, events)
	return events
}

// Tickers returns current Hyperliquid perp tickers with the same
// cache / upstream / mock chain as Events.
func (s *Service) Tickers(ctx context.Context) []PerpTicker {
	var cached []PerpTicker
	if s.cacheGet(ctx, cacheKeyTickers, "tickers", &cached) {
		return cached
	}

	result, err := s.hyperliquidBreaker.Execute(func() (any, error) {
		return s.hyperliquid.FetchTickers(ctx)
	})
	if err != nil {
		s.recordUpstream(upstreamHyperliquid, false)
		log.Warn().Err(err).Msg("hyperliquid unavailable, serving mock tickers")
		return MockTickers()
	}
	s.recordUpstream(upstreamHyperliquid, true)

	tickers := result.([]PerpTicker)
	if len(tickers) == 0 {
		s.recordFallback(upstreamHyperliquid)
		return MockTickers()
	}
	s.cacheSet(ctx, cacheKeyTickers, tickers)
	return tickers
}

func (s *Service) cacheGet(ctx context.Context, key, cacheType string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if s.metrics != nil {
		if hit {
			s.metrics.CacheHits.WithLabelValues(cacheType).Inc()
		} else {
			s.metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		}
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (s *Service) recordUpstream(upstream string, ok bool) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
		s.metrics.Fallbacks.WithLabelValues(upstream).Inc()
	}
	s.metrics.UpstreamRequests.WithLabelValues(upstream, result).Inc()
}

func (s *Service) recordFallback(upstream string) {
	if s.metrics != nil {
		s.metrics.Fallbacks.WithLabelValues(upstream).Inc()
	}
}
