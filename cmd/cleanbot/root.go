package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd builds the command tree.
func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "cleanbot",
		Short:         "Clean messy CSV files",
		Long:          "cleanbot runs a fixed cleaning pipeline over CSV files:\nstring normalization, date repair, missing-value imputation,\nduplicate removal and outlier replacement.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	cmd.AddCommand(cleanCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

// setupLogging installs the process-wide slog handler.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}
