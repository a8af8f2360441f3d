package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Store     StoreConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Sim       SimConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// AIConfig holds generative-service client configuration.
type AIConfig struct {
	Address string        `envconfig:"AI_ADDR" default:"http://localhost:9090"`
	Timeout time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
}

// StoreConfig holds site record store configuration.
type StoreConfig struct {
	// Backend selects the persistence backend: "file" or "sqlite".
	Backend string `envconfig:"STORE_BACKEND" default:"file"`
	Path    string `envconfig:"STORE_PATH" default:"data/sites.json.gz"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds per-IP rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// SimConfig tunes the simulated network behavior.
type SimConfig struct {
	// NormalDelay is the stall applied to normal page loads.
	NormalDelay time.Duration `envconfig:"SIM_NORMAL_DELAY" default:"600ms"`
	// SlowedDelay is the stall applied to throttled sites.
	SlowedDelay time.Duration `envconfig:"SIM_SLOWED_DELAY" default:"4s"`
	// BlockedDelay is the stall before the connection-reset fault shows.
	BlockedDelay time.Duration `envconfig:"SIM_BLOCKED_DELAY" default:"350ms"`
	// AppealChance is the probability a block escalates to an appeal.
	AppealChance float64 `envconfig:"SIM_APPEAL_CHANCE" default:"0.4"`
	// Seed fixes the enforcement RNG; 0 means time-seeded.
	Seed int64 `envconfig:"SIM_SEED" default:"0"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Host: "0.0.0.0"},
		AI:     AIConfig{Address: "http://localhost:9090", Timeout: 60 * time.Second},
		Store:  StoreConfig{Backend: "file", Path: "data/sites.json.gz"},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
		Sim: SimConfig{
			NormalDelay:  600 * time.Millisecond,
			SlowedDelay:  4 * time.Second,
			BlockedDelay: 350 * time.Millisecond,
			AppealChance: 0.4,
		},
	}
}
