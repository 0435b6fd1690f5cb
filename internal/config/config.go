// Package config loads the PolyTrigger YAML configuration with
// environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Upstreams UpstreamsConfig `yaml:"upstreams"`
	Signup    SignupConfig    `yaml:"signup"`
}

type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `yaml:"idle_timeout_seconds"`
}

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

type PostgresConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type UpstreamConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     uint64  `yaml:"max_retries"`
	RPS            float64 `yaml:"rps"`
	Burst          int     `yaml:"burst"`
}

func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

type UpstreamsConfig struct {
	Polymarket  UpstreamConfig `yaml:"polymarket"`
	Hyperliquid UpstreamConfig `yaml:"hyperliquid"`
	EventLimit  int            `yaml:"event_limit"`
}

type SignupConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8080,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
			IdleTimeoutSeconds:  60,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 30,
		},
		Upstreams: UpstreamsConfig{
			Polymarket:  UpstreamConfig{TimeoutSeconds: 10, MaxRetries: 3, RPS: 2, Burst: 4},
			Hyperliquid: UpstreamConfig{TimeoutSeconds: 10, MaxRetries: 3, RPS: 2, Burst: 4},
			EventLimit:  20,
		},
		Signup: SignupConfig{RPS: 0.2, Burst: 3},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. An empty path loads defaults + env only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays deployment environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("HTTP_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
		c.Postgres.Enabled = true
	}
	if v := os.Getenv("POLYMARKET_BASE_URL"); v != "" {
		c.Upstreams.Polymarket.BaseURL = v
	}
	if v := os.Getenv("HYPERLIQUID_BASE_URL"); v != "" {
		c.Upstreams.Hyperliquid.BaseURL = v
	}
}
