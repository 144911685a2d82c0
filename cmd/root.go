package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rengenols/dispatch/dispatch"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional YAML config overriding engine defaults
	dsn        string // Postgres DSN; empty selects the demo in-memory store
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Workload distribution engine for pending radiology studies",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the engine config: defaults, optionally overridden
// from --config.
func loadConfig() (dispatch.Config, error) {
	if configPath == "" {
		return dispatch.DefaultConfig(), nil
	}
	return dispatch.LoadConfig(configPath)
}

// init sets up persistent CLI flags
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config overriding engine defaults")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres DSN (empty = seeded in-memory demo store)")
}
