package commands

import (
	"github.com/spf13/cobra"

	"github.com/ledgermint/ledgermint/config"
	"github.com/ledgermint/ledgermint/node"
)

// StartCommand returns the command that runs the sync daemon until it is
// signalled to stop.
func StartCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the block sync daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureRoot(env.config.RootDir); err != nil {
				return err
			}

			ctx := cmd.Context()
			n, err := node.New(ctx, env.config, env.logger)
			if err != nil {
				return err
			}

			if err := n.Start(ctx); err != nil {
				return err
			}
			env.logger.Info("started node",
				"home", env.config.RootDir,
				"primary", env.config.PrimaryAddr,
			)

			// Block until a signal cancels the context; the node's service
			// machinery performs the shutdown.
			n.Wait()
			return nil
		},
	}

	defaults := config.DefaultConfig()
	cmd.Flags().String("primary-addr", defaults.PrimaryAddr,
		"HTTP address of the ledger block service")
	cmd.Flags().Uint64("store-max-blocks", defaults.StoreMaxBlocks,
		"maximum number of blocks retained locally (0 keeps everything)")
	cmd.Flags().Duration("sync-interval", defaults.SyncInterval,
		"pause between catch-up rounds")
	cmd.Flags().String("verification-key", "",
		"hex-encoded ed25519 key certifying the remote chain tip")
	cmd.Flags().Bool("prometheus", false,
		"serve Prometheus metrics under /metrics")

	return cmd
}
