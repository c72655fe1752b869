package main

import (
	"context"
	"os"
	"os/signal"

	"autocommiter/internal/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// apiBaseURL overrides the GitHub Models endpoint. Empty uses the default.
var apiBaseURL string

func newRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "autocommiter",
		Short:         "Stage, describe, commit and push changes with a generated commit message",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			if debug || utils.IsDebug() {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, generateFlags{})
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newSetAPIKeyCmd(),
		newGetAPIKeyCmd(),
		newRefreshModelsCmd(),
		newListModelsCmd(),
		newSelectModelCmd(),
		newGetModelCmd(),
		newToggleGitmojiCmd(),
		newGetConfigCmd(),
		newResetConfigCmd(),
	)
	return rootCmd
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}
