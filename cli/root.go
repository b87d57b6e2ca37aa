// Package cli is the anyfeatures command line: it runs the feature pipeline
// for a configured resource against Postgres or SQLite and prints the
// result envelope.
package cli

import (
	"log/slog"
	"os"

	"anyFeatures/config"
	"anyFeatures/logging"

	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    *config.Config
	logger *slog.Logger
)

// defaultConfigPath checks ANYFEATURES_CONFIG first.
func defaultConfigPath() string {
	if p := os.Getenv("ANYFEATURES_CONFIG"); p != "" {
		return p
	}
	return "anyfeatures.yaml"
}

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "anyfeatures",
		Short: "Search, filter, sort and paginate a table from query parameters",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadConfig(flagConfig)
			if err != nil {
				return err
			}
			cfg = c

			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = flagLogLevel
			}
			if flagDebug {
				level = "debug"
			}
			format := cfg.LogFormat
			if cmd.Flags().Changed("log-format") {
				format = flagLogFormat
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(level), format, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath(), "Config file (or ANYFEATURES_CONFIG env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newQueryCmd(),
		newExplainCmd(),
	)

	return root
}
