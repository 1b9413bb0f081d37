package commands

import (
	"github.com/spf13/cobra"

	"github.com/ledgermint/ledgermint/config"
)

// InitFilesCommand returns the command that scaffolds the home directory.
func InitFilesCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the home directory with a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureRoot(env.config.RootDir); err != nil {
				return err
			}
			env.logger.Info("initialized home directory",
				"home", env.config.RootDir,
				"config", config.DefaultConfigFile(env.config.RootDir),
			)
			return nil
		},
	}
}
