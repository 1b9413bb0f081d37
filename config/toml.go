package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

var configTemplate *template.Template

func init() {
	var err error
	if configTemplate, err = template.New("configFileTemplate").Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// EnsureRoot creates the root, config and data directories if they are
// missing, and a default config file if none exists.
func EnsureRoot(rootDir string) error {
	for _, dir := range []string{
		rootDir,
		filepath.Join(rootDir, defaultConfigDir),
		filepath.Join(rootDir, defaultDataDir),
	} {
		if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
			return fmt.Errorf("creating directory %q: %w", dir, err)
		}
	}

	configFilePath := DefaultConfigFile(rootDir)
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		return WriteConfigFile(configFilePath, DefaultConfig())
	}
	return nil
}

// WriteConfigFile renders config into a TOML file at configFilePath.
func WriteConfigFile(configFilePath string, config *Config) error {
	var buffer bytes.Buffer
	if err := configTemplate.Execute(&buffer, config); err != nil {
		return fmt.Errorf("rendering config template: %w", err)
	}
	return os.WriteFile(configFilePath, buffer.Bytes(), 0600)
}

// Note: any changes to the comments/variables/field-names in the template
// must be reflected in the Config struct.
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

# NOTE: Any path below can be absolute (e.g. "/var/ledgermint/data") or
# relative to the home directory (e.g. "data").

#######################################################################
###                    Main Base Config Options                     ###
#######################################################################

# Minimum severity that gets logged: debug, info or error.
log-level = "{{ .LogLevel }}"

# Output format: 'plain' (colored text) or 'json'.
log-format = "{{ .LogFormat }}"

# HTTP address of the ledger block service to sync from.
primary-addr = "{{ .PrimaryAddr }}"

# Hex-encoded ed25519 key used to verify the certification the ledger
# attaches to its chain tip. Leave empty to skip certification checks.
verification-key = "{{ .VerificationKey }}"

#######################################################################
###                      Block Store Options                        ###
#######################################################################

# Database backend: goleveldb | cleveldb | boltdb | rocksdb | badgerdb
db-backend = "{{ .DBBackend }}"

# Block store directory, relative to the home's data directory.
db-dir = "{{ .DBPath }}"

# Maximum number of blocks retained locally. Once the excess passes the
# prune delay, the oldest blocks are dropped so this many remain.
# 0 disables pruning and keeps the whole chain.
store-max-blocks = {{ .StoreMaxBlocks }}

#######################################################################
###                         Sync Options                            ###
#######################################################################

# Pause between catch-up rounds.
sync-interval = "{{ .SyncInterval }}"

#######################################################################
###                    Instrumentation Options                      ###
#######################################################################

# When true, a Prometheus metrics endpoint is served under /metrics.
prometheus = {{ .Prometheus }}

# Listen address of the Prometheus metrics endpoint.
prometheus-listen-addr = "{{ .PrometheusListenAddr }}"
`
