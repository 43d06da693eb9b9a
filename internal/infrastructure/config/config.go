package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g. BTCFEED_LOG_LEVEL.
const EnvPrefix = "BTCFEED_"

type Config struct {
	App struct {
		PrintEveryMin int    `toml:"print_every_min" env:"PRINT_EVERY_MIN"`
		MetricsAddr   string `toml:"metrics_addr" env:"METRICS_ADDR"`
	} `toml:"app" envPrefix:"APP_"`

	Log    LogConfig    `toml:"log" envPrefix:"LOG_"`
	Engine EngineConfig `toml:"engine" envPrefix:"ENGINE_"`

	// keyed by venue name; entries override the built-in venue table
	Venues map[string]VenueConfig `toml:"venues"`

	Redis    RedisConfig    `toml:"redis" envPrefix:"REDIS_"`
	SQLite   SQLiteConfig   `toml:"sqlite" envPrefix:"SQLITE_"`
	Postgres PostgresConfig `toml:"postgres" envPrefix:"POSTGRES_"`
}

type LogConfig struct {
	Level      string `toml:"level" env:"LEVEL"`
	Format     string `toml:"format" env:"FORMAT"`
	Output     string `toml:"output" env:"OUTPUT"`
	MaxSizeMB  int    `toml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxAgeDays int    `toml:"max_age_days" env:"MAX_AGE_DAYS"`
	MaxBackups int    `toml:"max_backups" env:"MAX_BACKUPS"`
}

type EngineConfig struct {
	DialTimeout       time.Duration `toml:"dial_timeout" env:"DIAL_TIMEOUT"`
	HandshakeTimeout  time.Duration `toml:"handshake_timeout" env:"HANDSHAKE_TIMEOUT"`
	ReadTimeout       time.Duration `toml:"read_timeout" env:"READ_TIMEOUT"`
	BackoffMin        time.Duration `toml:"backoff_min" env:"BACKOFF_MIN"`
	BackoffMax        time.Duration `toml:"backoff_max" env:"BACKOFF_MAX"`
	KeepAliveInterval time.Duration `toml:"keepalive_interval" env:"KEEPALIVE_INTERVAL"`

	// token endpoint protection
	HandshakeRPS     float64       `toml:"handshake_rps" env:"HANDSHAKE_RPS"`
	HandshakeBurst   int           `toml:"handshake_burst" env:"HANDSHAKE_BURST"`
	BreakerFailures  uint32        `toml:"breaker_failures" env:"BREAKER_FAILURES"`
	BreakerOpenDelay time.Duration `toml:"breaker_open_delay" env:"BREAKER_OPEN_DELAY"`
}

// VenueConfig overrides one entry of the built-in venue table. Empty fields
// keep the built-in value.
type VenueConfig struct {
	Enabled  *bool  `toml:"enabled"`
	Adapter  string `toml:"adapter"`
	Protocol string `toml:"protocol"`

	SpotURL             string `toml:"spot_url"`
	FuturesURL          string `toml:"futures_url"`
	SpotSymbol          string `toml:"spot_symbol"`
	FuturesSymbol       string `toml:"futures_symbol"`
	HandshakeURL        string `toml:"handshake_url"`
	FuturesHandshakeURL string `toml:"futures_handshake_url"`
	ExpirationDate      string `toml:"expiration_date"`

	KeepAliveInterval time.Duration `toml:"keepalive_interval"`

	// subset of "spot", "futures"; empty means every market the venue serves
	Markets []string `toml:"markets"`
}

// IsEnabled defaults to true when the key is absent.
func (v VenueConfig) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled" env:"ENABLED"`
	Addr       string `toml:"addr" env:"ADDR"`
	Password   string `toml:"password" env:"PASSWORD"`
	DB         int    `toml:"db" env:"DB"`
	Prefix     string `toml:"prefix" env:"PREFIX"`
	TTLSeconds int    `toml:"ttl_seconds" env:"TTL_SECONDS"`
	Channel    string `toml:"channel" env:"CHANNEL"`
}

type SQLiteConfig struct {
	Enabled bool   `toml:"enabled" env:"ENABLED"`
	Path    string `toml:"path" env:"PATH"`
}

type PostgresConfig struct {
	Enabled bool   `toml:"enabled" env:"ENABLED"`
	DSN     string `toml:"dsn" env:"DSN"`
}

// Load reads the TOML file at path (optional), applies BTCFEED_* environment
// overrides, then defaults, then validates.
func Load(path string) (*Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.PrintEveryMin <= 0 {
		cfg.App.PrintEveryMin = 5
	}

	e := &cfg.Engine
	if e.DialTimeout <= 0 {
		e.DialTimeout = 10 * time.Second
	}
	if e.HandshakeTimeout <= 0 {
		e.HandshakeTimeout = 10 * time.Second
	}
	if e.ReadTimeout <= 0 {
		e.ReadTimeout = 60 * time.Second
	}
	if e.BackoffMin <= 0 {
		e.BackoffMin = 500 * time.Millisecond
	}
	if e.BackoffMax <= 0 {
		e.BackoffMax = 30 * time.Second
	}
	if e.KeepAliveInterval <= 0 {
		e.KeepAliveInterval = 25 * time.Second
	}
	if e.HandshakeRPS <= 0 {
		e.HandshakeRPS = 1
	}
	if e.HandshakeBurst <= 0 {
		e.HandshakeBurst = 2
	}
	if e.BreakerFailures == 0 {
		e.BreakerFailures = 5
	}
	if e.BreakerOpenDelay <= 0 {
		e.BreakerOpenDelay = 30 * time.Second
	}

	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "btcfeed"
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = cfg.Redis.Prefix + ":prices:pub"
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = "data/btcfeed.db"
	}
}

func validate(cfg *Config) error {
	if cfg.Engine.BackoffMax < cfg.Engine.BackoffMin {
		return errors.New("engine.backoff_max must be >= engine.backoff_min")
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but redis enabled")
	}
	if cfg.Postgres.Enabled && strings.TrimSpace(cfg.Postgres.DSN) == "" {
		return errors.New("postgres.dsn empty but postgres enabled")
	}
	for name, v := range cfg.Venues {
		for _, m := range v.Markets {
			switch strings.ToLower(strings.TrimSpace(m)) {
			case "spot", "futures":
			default:
				return fmt.Errorf("venues.%s.markets: unknown market %q", name, m)
			}
		}
	}
	return nil
}
