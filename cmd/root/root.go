// Package root contains the root command for the application.
package root

import (
	"fjacquet/fincat/internal/config"
	"fjacquet/fincat/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "fincat",
		Short: "Categorize financial transactions and track budgets.",
		Long: `fincat ingests tabular transaction files (CSV, TSV or TXT), assigns each
transaction to a spending category using keyword rules backed by a trainable
text classifier, and tracks per-category budgets.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to fincat!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
			logging.SetLogger(logging.NewLogrusAdapterFromLogger(Log))

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg
		},
	}
)

// Logger returns the shared logger wrapped in the logging abstraction.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
