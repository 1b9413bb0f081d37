package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgermint/ledgermint/version"
)

// VersionCommand returns the version command.
func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Version)
		},
	}
}
