package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().ValidateBasic())
	require.NoError(t, TestConfig().ValidateBasic())
}

func TestValidateBasic(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty primary addr", func(c *Config) { c.PrimaryAddr = "" }},
		{"bad primary scheme", func(c *Config) { c.PrimaryAddr = "tcp://localhost:8575" }},
		{"zero sync interval", func(c *Config) { c.SyncInterval = 0 }},
		{"negative sync interval", func(c *Config) { c.SyncInterval = -time.Second }},
		{"empty db dir", func(c *Config) { c.DBPath = "" }},
		{"prometheus without addr", func(c *Config) {
			c.Prometheus = true
			c.PrometheusListenAddr = ""
		}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.ValidateBasic())
		})
	}
}

func TestDBDir(t *testing.T) {
	cfg := DefaultConfig().SetRoot("/tmp/ledgermint-home")
	assert.Equal(t, filepath.Join("/tmp/ledgermint-home", "data", "blockstore"), cfg.DBDir())

	cfg.DBPath = "/var/blocks"
	assert.Equal(t, "/var/blocks", cfg.DBDir())
}

func TestEnsureRoot(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, EnsureRoot(root))

	data, err := os.ReadFile(DefaultConfigFile(root))
	require.NoError(t, err)
	assert.Contains(t, string(data), `primary-addr = "http://localhost:8575"`)
	assert.Contains(t, string(data), "store-max-blocks = 0")

	// A second call must not clobber an existing config file.
	require.NoError(t, os.WriteFile(DefaultConfigFile(root), []byte("# custom"), 0600))
	require.NoError(t, EnsureRoot(root))
	data, err = os.ReadFile(DefaultConfigFile(root))
	require.NoError(t, err)
	assert.Equal(t, "# custom", string(data))
}
