// Package config loads the stocklots configuration from TOML files, a .env
// file and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for stocklots.
type Config struct {
	Market       MarketConfig       `toml:"market"`
	Chart        ChartConfig        `toml:"chart"`
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
	Store        StoreConfig        `toml:"store"`
	Logging      LoggingConfig      `toml:"logging"`
}

// MarketConfig tunes market data lookups.
type MarketConfig struct {
	StaleDays int `toml:"stale_days"` // days without record after which a symbol is presumed delisted
}

// ChartConfig tunes text charts.
type ChartConfig struct {
	Buckets   int `toml:"buckets"`
	MinPoints int `toml:"min_points"`
	Width     int `toml:"width"`
}

// AlphaVantageConfig holds the market data provider configuration.
type AlphaVantageConfig struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
	CacheDir string `toml:"cache_dir"`
}

// TimeoutDuration parses Timeout, defaulting to 30s.
func (c AlphaVantageConfig) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// StoreConfig selects where portfolios are saved.
type StoreConfig struct {
	Driver string `toml:"driver"` // "dir" or "sqlite"
	Path   string `toml:"path"`
}

// LoggingConfig holds the log level.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default store drivers.
const (
	DriverDir    = "dir"
	DriverSQLite = "sqlite"
)

// NewDefaultConfig returns the configuration used when no file overrides it.
func NewDefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Market: MarketConfig{StaleDays: 10},
		Chart:  ChartConfig{Buckets: 29, MinPoints: 5, Width: 50},
		AlphaVantage: AlphaVantageConfig{
			BaseURL:  "https://www.alphavantage.co/query",
			Timeout:  "30s",
			CacheDir: filepath.Join(os.TempDir(), "stocklots"),
		},
		Store:   StoreConfig{Driver: DriverDir, Path: filepath.Join(dataDir, "portfolios")},
		Logging: LoggingConfig{Level: "warn"},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "stocklots")
	}
	return ".stocklots"
}

// LoadConfig loads the .env file of the working directory if any, then the
// configuration files in order (later files override earlier ones, missing
// files are skipped), then applies environment overrides.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	config := NewDefaultConfig()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if key := os.Getenv("ALPHAVANTAGE_API_KEY"); key != "" {
		config.AlphaVantage.APIKey = key
	}
	if driver := os.Getenv("STOCKLOTS_STORE"); driver != "" {
		config.Store.Driver = driver
	}
	if dir := os.Getenv("STOCKLOTS_DATA_DIR"); dir != "" {
		config.Store.Path = filepath.Join(dir, "portfolios")
		if config.Store.Driver == DriverSQLite {
			config.Store.Path = filepath.Join(dir, "stocklots.db")
		}
	}
	if level := os.Getenv("STOCKLOTS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if days := os.Getenv("STOCKLOTS_STALE_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Market.StaleDays = d
		}
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverDir, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q, want %q or %q", c.Store.Driver, DriverDir, DriverSQLite)
	}
	if c.Market.StaleDays <= 0 {
		return fmt.Errorf("market.stale_days must be positive, got %d", c.Market.StaleDays)
	}
	if c.Chart.Buckets <= 0 || c.Chart.MinPoints <= 0 || c.Chart.Width <= 0 {
		return fmt.Errorf("chart settings must be positive, got %+v", c.Chart)
	}
	return nil
}

// DefaultPath returns the configuration file read before the one given on
// the command line.
func DefaultPath() string { return filepath.Join(defaultDataDir(), "config.toml") }
