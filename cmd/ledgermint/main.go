package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgermint/ledgermint/cmd/ledgermint/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd, env := commands.RootCommand()
	rootCmd.AddCommand(
		commands.InitFilesCommand(env),
		commands.StartCommand(env),
		commands.VersionCommand(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
