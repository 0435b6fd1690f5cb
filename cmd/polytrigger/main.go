package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/polytrigger/polytrigger/internal/config"
	"github.com/polytrigger/polytrigger/internal/httpapi"
	"github.com/polytrigger/polytrigger/internal/marketdata"
	"github.com/polytrigger/polytrigger/internal/metrics"
	"github.com/polytrigger/polytrigger/internal/ratelimit"
	"github.com/polytrigger/polytrigger/internal/signup"
	"github.com/polytrigger/polytrigger/internal/strategy"
)

const (
	appName = "PolyTrigger"
	version = "v0.4.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "polytrigger",
		Short:   "Event-aware conditional trading demo backend",
		Version: version,
		Long: `PolyTrigger turns natural-language trading strategies into structured,
event-conditioned records and serves Polymarket/Hyperliquid market data
for the demo frontend.`,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}

	parseCmd := &cobra.Command{
		Use:   "parse [strategy text]",
		Short: "Parse a strategy sentence and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().Bool("json", false, "Force JSON output even on a TTY")

	marketsCmd := &cobra.Command{
		Use:   "markets",
		Short: "Fetch and print current market data",
		RunE:  runMarkets,
	}

	rootCmd.AddCommand(serveCmd, parseCmd, marketsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func buildMarketService(cfg *config.Config, reg *metrics.Registry) *marketdata.Service {
	var cache marketdata.Cache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		cache = marketdata.NewRedisCache(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis cache enabled")
	}

	return marketdata.NewService(marketdata.ServiceConfig{
		Polymarket: marketdata.NewPolymarketClient(marketdata.PolymarketConfig{
			BaseURL:    cfg.Upstreams.Polymarket.BaseURL,
			Timeout:    cfg.Upstreams.Polymarket.Timeout(),
			MaxRetries: cfg.Upstreams.Polymarket.MaxRetries,
			RPS:        cfg.Upstreams.Polymarket.RPS,
			Burst:      cfg.Upstreams.Polymarket.Burst,
		}),
		Hyperliquid: marketdata.NewHyperliquidClient(marketdata.HyperliquidConfig{
			BaseURL:    cfg.Upstreams.Hyperliquid.BaseURL,
			Timeout:    cfg.Upstreams.Hyperliquid.Timeout(),
			MaxRetries: cfg.Upstreams.Hyperliquid.MaxRetries,
			RPS:        cfg.Upstreams.Hyperliquid.RPS,
			Burst:      cfg.Upstreams.Hyperliquid.Burst,
		}),
		Cache:      cache,
		CacheTTL:   cfg.Redis.TTL(),
		EventLimit: cfg.Upstreams.EventLimit,
		Metrics:    reg,
	})
}

func buildSignupService(ctx context.Context, cfg *config.Config, reg *metrics.Registry) (*signup.Service, error) {
	var store signup.Store
	if cfg.Postgres.Enabled {
		db, err := sqlx.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		pg := signup.NewPostgresStore(db, 5*time.Second)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		store = pg
		log.Info().Msg("postgres signup store enabled")
	} else {
		store = signup.NewMemoryStore()
		log.Info().Msg("in-memory signup store enabled")
	}

	limiter := ratelimit.NewLimiter(cfg.Signup.RPS, cfg.Signup.Burst)
	return signup.NewService(store, limiter, reg), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	market := buildMarketService(cfg, reg)
	signups, err := buildSignupService(ctx, cfg, reg)
	if err != nil {
		return err
	}

	serverCfg := httpapi.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout()
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout()
	serverCfg.IdleTimeout = cfg.Server.IdleTimeout()

	server := httpapi.NewServer(serverCfg, market, signups, reg)
	log.Info().Str("version", version).Msg(appName + " starting")
	return server.Start(ctx)
}

func runParse(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	result := strategy.ParseWithValidation(text)

	forceJSON, _ := cmd.Flags().GetBool("json")
	if forceJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	if !result.Success {
		fmt.Printf("✗ %s\n\nTry one of:\n", result.Error)
		for _, s := range result.Suggestions {
			fmt.Printf("  • %s\n", s)
		}
		return nil
	}

	s := result.Strategy
	fmt.Printf("✓ %s\n", s.Name)
	fmt.Printf("  asset:       %s\n", s.Asset)
	fmt.Printf("  action:      %s\n", s.Action)
	fmt.Printf("  leverage:    %dx\n", s.Leverage)
	fmt.Printf("  stop loss:   %.1f%%\n", s.StopLoss)
	fmt.Printf("  take profit: %.1f%%\n", s.TakeProfit)
	fmt.Println("  conditions:")
	for _, c := range s.Conditions {
		fmt.Printf("    - [%s] %s\n", c.Type, c.Description)
	}
	for _, w := range s.Warnings {
		fmt.Printf("  ⚠ %s\n", w)
	}
	return nil
}

func runMarkets(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	market := buildMarketService(cfg, nil)
	out := map[string]any{
		"events":  market.Events(ctx),
		"tickers": market.Tickers(ctx),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
