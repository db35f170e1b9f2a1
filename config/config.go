// Package config loads service configuration from YAML, flags and environment.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration. API credentials come from
// the environment only (BINANCE_API_KEY / BINANCE_API_SECRET), optionally
// via a local .env file.
type Config struct {
	ListenAddr string
	// FiatAssets are valued 1:1 against the quote currency.
	FiatAssets []string
	// WrapTotals selects the portfolio-wrapped balances response shape.
	WrapTotals bool

	HistoryFile   string
	HistoryPolicy string
	// RecordInterval enables the in-process recorder loop when positive.
	RecordInterval time.Duration
	SnapshotWALDir string

	TLSDomains  []string
	TLSCacheDir string

	APIKey    string
	APISecret string
}

// fileConfig mirrors Config for YAML parsing; durations come in as strings.
type fileConfig struct {
	ListenAddr     string   `yaml:"listen_addr"`
	FiatAssets     []string `yaml:"fiat_assets"`
	WrapTotals     *bool    `yaml:"wrap_totals"`
	HistoryFile    string   `yaml:"history_file"`
	HistoryPolicy  string   `yaml:"history_policy"`
	RecordInterval string   `yaml:"record_interval"`
	SnapshotWALDir string   `yaml:"snapshot_wal_dir"`
	TLSDomains     []string `yaml:"tls_domains"`
	TLSCacheDir    string   `yaml:"tls_cache_dir"`
}

func defaults() Config {
	return Config{
		ListenAddr:     ":8000",
		FiatAssets:     []string{"USDT", "BRL"},
		WrapTotals:     true,
		HistoryFile:    "portfolio_history.csv",
		HistoryPolicy:  "upsert",
		SnapshotWALDir: "./wal/portfolio",
	}
}

// Get parses flags, loads the optional YAML file and reads credentials.
func Get() (Config, error) {
	path := flag.String("config", "", "path to yaml config")
	flag.Parse()

	return Load(*path)
}

// Load reads the configuration from the given YAML path ("" keeps defaults)
// and fills credentials from the environment.
func Load(path string) (Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		var file fileConfig
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := merge(&cfg, file); err != nil {
			return Config{}, err
		}
	}

	if cfg.HistoryPolicy != "upsert" && cfg.HistoryPolicy != "append" {
		return Config{}, fmt.Errorf("invalid history_policy %q, want upsert or append", cfg.HistoryPolicy)
	}

	cfg.APIKey = os.Getenv("BINANCE_API_KEY")
	cfg.APISecret = os.Getenv("BINANCE_API_SECRET")
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return Config{}, fmt.Errorf("BINANCE_API_KEY and BINANCE_API_SECRET must be set")
	}

	return cfg, nil
}

func merge(cfg *Config, file fileConfig) error {
	if file.ListenAddr != "" {
		cfg.ListenAddr = file.ListenAddr
	}
	if file.FiatAssets != nil {
		cfg.FiatAssets = file.FiatAssets
	}
	if file.WrapTotals != nil {
		cfg.WrapTotals = *file.WrapTotals
	}
	if file.HistoryFile != "" {
		cfg.HistoryFile = file.HistoryFile
	}
	if file.HistoryPolicy != "" {
		cfg.HistoryPolicy = file.HistoryPolicy
	}
	if file.SnapshotWALDir != "" {
		cfg.SnapshotWALDir = file.SnapshotWALDir
	}
	if file.TLSDomains != nil {
		cfg.TLSDomains = file.TLSDomains
	}
	if file.TLSCacheDir != "" {
		cfg.TLSCacheDir = file.TLSCacheDir
	}
	if file.RecordInterval != "" {
		d, err := time.ParseDuration(file.RecordInterval)
		if err != nil {
			return fmt.Errorf("invalid record_interval %q: %w", file.RecordInterval, err)
		}
		cfg.RecordInterval = d
	}
	return nil
}
