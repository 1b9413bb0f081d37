// Package config holds the daemon's configuration, loadable from a TOML
// file and overridable through flags and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/ledgermint/ledgermint/libs/log"
)

const (
	// DefaultDirPerm is the default permission for config directories.
	DefaultDirPerm = 0700

	defaultConfigDir  = "config"
	defaultDataDir    = "data"
	defaultConfigName = "config.toml"
)

// DefaultConfigFile returns the path of the config file under root.
func DefaultConfigFile(root string) string {
	return filepath.Join(root, defaultConfigDir, defaultConfigName)
}

// Config holds everything the sync daemon needs to run.
type Config struct {
	// RootDir is the daemon's home directory. Set at load time, never
	// written to the config file.
	RootDir string `mapstructure:"home"`

	// LogLevel is the minimum severity that gets logged (debug|info|error).
	LogLevel string `mapstructure:"log-level"`
	// LogFormat is either "plain" or "json".
	LogFormat string `mapstructure:"log-format"`

	// PrimaryAddr is the HTTP address of the ledger block service.
	PrimaryAddr string `mapstructure:"primary-addr"`

	// DBBackend selects the database backend for the block store
	// (goleveldb | cleveldb | boltdb | rocksdb | badgerdb).
	DBBackend string `mapstructure:"db-backend"`
	// DBPath is the block store directory, relative to RootDir.
	DBPath string `mapstructure:"db-dir"`

	// StoreMaxBlocks bounds local retention. 0 keeps everything.
	StoreMaxBlocks uint64 `mapstructure:"store-max-blocks"`

	// SyncInterval is the pause between catch-up rounds.
	SyncInterval time.Duration `mapstructure:"sync-interval"`

	// VerificationKey is the hex-encoded ed25519 key certifying the remote
	// tip. Empty disables tip certification checks.
	VerificationKey string `mapstructure:"verification-key"`

	// Prometheus turns the metrics endpoint on.
	Prometheus bool `mapstructure:"prometheus"`
	// PrometheusListenAddr is the metrics endpoint's listen address.
	PrometheusListenAddr string `mapstructure:"prometheus-listen-addr"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:             log.LogLevelInfo,
		LogFormat:            log.LogFormatPlain,
		PrimaryAddr:          "http://localhost:8575",
		DBBackend:            "goleveldb",
		DBPath:               "blockstore",
		StoreMaxBlocks:       0,
		SyncInterval:         1 * time.Second,
		Prometheus:           false,
		PrometheusListenAddr: ":26660",
	}
}

// TestConfig returns a configuration for tests.
func TestConfig() *Config {
	cfg := DefaultConfig()
	cfg.DBBackend = "memdb"
	cfg.SyncInterval = 10 * time.Millisecond
	return cfg
}

// SetRoot sets the daemon's home directory and returns the config for
// chaining.
func (cfg *Config) SetRoot(root string) *Config {
	cfg.RootDir = root
	return cfg
}

// DBDir returns the absolute path of the block store directory.
func (cfg *Config) DBDir() string {
	if filepath.IsAbs(cfg.DBPath) {
		return cfg.DBPath
	}
	return filepath.Join(cfg.RootDir, defaultDataDir, cfg.DBPath)
}

// ValidateBasic performs stateless sanity checks on the configuration.
func (cfg *Config) ValidateBasic() error {
	if cfg.PrimaryAddr == "" {
		return errors.New("primary-addr cannot be empty")
	}
	if u, err := url.Parse(cfg.PrimaryAddr); err != nil {
		return fmt.Errorf("invalid primary-addr: %w", err)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid primary-addr: unsupported scheme %q", u.Scheme)
	}
	if cfg.SyncInterval <= 0 {
		return errors.New("sync-interval must be positive")
	}
	if cfg.DBPath == "" {
		return errors.New("db-dir cannot be empty")
	}
	if cfg.Prometheus && cfg.PrometheusListenAddr == "" {
		return errors.New("prometheus-listen-addr cannot be empty when prometheus is enabled")
	}
	return nil
}
