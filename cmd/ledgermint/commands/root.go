// Package commands implements the ledgermint CLI.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgermint/ledgermint/config"
	"github.com/ledgermint/ledgermint/libs/log"
)

const envPrefix = "LEDGERMINT"

// Env is the state shared by all subcommands, populated by the root
// command's PersistentPreRun.
type Env struct {
	config *config.Config
	logger log.Logger
}

// defaultHome returns the default daemon home directory.
func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ledgermint"
	}
	return filepath.Join(home, ".ledgermint")
}

// RootCommand constructs the root command and the environment shared with
// its subcommands. Flag, environment-variable and config file resolution
// happens once here; subcommands read the result from the environment.
func RootCommand() (*cobra.Command, *Env) {
	env := &Env{}

	cmd := &cobra.Command{
		Use:          "ledgermint",
		Short:        "Ledger block sync daemon",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseConfig(cmd)
			if err != nil {
				return err
			}

			logger, err := log.NewDefaultLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}

			env.config = cfg
			env.logger = logger
			return nil
		},
	}

	cmd.PersistentFlags().String("home", defaultHome(), "directory for config and data")
	cmd.PersistentFlags().String("log-level", config.DefaultConfig().LogLevel, "log level (debug|info|error)")
	cmd.PersistentFlags().String("log-format", config.DefaultConfig().LogFormat, "log format (plain|json)")

	return cmd, env
}

// parseConfig layers defaults, the config file (when present), environment
// variables and flags, in increasing priority.
func parseConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	home := v.GetString("home")
	v.SetConfigFile(config.DefaultConfigFile(home))
	if err := v.ReadInConfig(); err != nil {
		// Fall back to defaults and flags when no config file exists yet.
		if _, ok := err.(*os.PathError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := config.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.SetRoot(home)

	if err := cfg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
