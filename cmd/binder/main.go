// Package main is the entry point for the binder CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "binder",
	Short: "binder - a Pokémon TCG card catalog, deck builder and card list",
	Long: `binder searches the Pokémon TCG card catalog and keeps a deck and a list
of saved cards in the current directory.

The deck holds up to 99 copies of each card. The list holds each card once,
with optional notes, and can be exported to and imported from JSON files.

Run 'binder init' once to create the .binder/ directory.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Show help when no subcommand is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var (
	flagEphemeral bool
	flagLogLevel  string
	flagNoColor   bool
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("binder version {{.Version}}\n")

	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep deck, list and history in memory only")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override log_level from .binderconfig.yaml")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}
