package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reposcope/reposcope/pkg/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "reposcope",
	Short: "Analyze a repository's languages, frameworks, Docker topology, and secrets exposure",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(zerolog.DebugLevel)
		}
	},
}

func Execute() {
	rootCmd.AddCommand(analyzeCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
