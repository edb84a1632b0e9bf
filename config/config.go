package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Server struct {
		Port int `env:"PORT" envDefault:"5250"`

		// Comma-separated list of origins allowed by the CORS middleware
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Store struct {
		// Either "sqlite" (local snapshot) or "postgres" (remote store)
		Driver string `env:"STORE_DRIVER" envDefault:"sqlite"`

		DatabaseURL string `env:"DATABASE_URL"`
		SQLitePath  string `env:"SQLITE_PATH" envDefault:"database/leadintel.db"`

		// Optional JSON fixture loaded into the SQLite snapshot on startup
		SeedFile string `env:"SEED_FILE"`

		QueryTimeout time.Duration `env:"STORE_QUERY_TIMEOUT" envDefault:"15s"`
	}

	Search struct {
		MinQueryLength int `env:"SEARCH_MIN_QUERY_LENGTH" envDefault:"3"`
		Limit          int `env:"SEARCH_LIMIT" envDefault:"10"`
	}

	CMA struct {
		// States where comparable selection skips the price bands
		PriceFilterExemptStates []string `env:"CMA_PRICE_FILTER_EXEMPT_STATES" envDefault:"TX" envSeparator:","`

		CompWindowMonths int `env:"CMA_COMP_WINDOW_MONTHS" envDefault:"12"`
		CompPoolLimit    int `env:"CMA_COMP_POOL_LIMIT" envDefault:"100"`
	}

	AgentRanking struct {
		Limit int `env:"AGENT_RANKING_LIMIT" envDefault:"3"`

		// Total attempts for timeout-class failures, first call included
		MaxAttempts int `env:"AGENT_RANKING_MAX_ATTEMPTS" envDefault:"3"`

		// Backoff grows linearly: 1x, 2x, ...
		RetryBackoff time.Duration `env:"AGENT_RANKING_RETRY_BACKOFF" envDefault:"1s"`
	}

	Narrative struct {
		APIKey    string        `env:"ANTHROPIC_API_KEY"`
		Model     string        `env:"NARRATIVE_MODEL" envDefault:"claude-haiku-4-5-20251001"`
		MaxTokens int64         `env:"NARRATIVE_MAX_TOKENS" envDefault:"512"`
		Timeout   time.Duration `env:"NARRATIVE_TIMEOUT" envDefault:"20s"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.CMA.PriceFilterExemptStates = normalizeStates(cfg.CMA.PriceFilterExemptStates)
	cfg.Server.AllowedOrigins = trimAll(cfg.Server.AllowedOrigins)
	return cfg, nil
}

func normalizeStates(states []string) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		if code := NormalizeState(s); code != "" {
			out = append(out, code)
		}
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
