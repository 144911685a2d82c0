package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rengenols/dispatch/dispatch"
	"github.com/rengenols/dispatch/report"
)

var reportPath string // Optional XLSX report output path

// runCmd executes one distribution run and prints the result envelope as JSON.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a distribution of pending studies across on-shift doctors",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			logrus.Fatalf("config: %v", err)
		}
		store, closeStore, err := openStore(cfg)
		if err != nil {
			logrus.Fatalf("store: %v", err)
		}
		defer closeStore()

		engine := dispatch.NewEngine(cfg, dispatch.SystemClock{}, store, store, store, nil)
		env, err := engine.Distribute(context.Background())

		var pf *dispatch.PersistenceFailure
		switch {
		case err == nil:
			// done
		case errors.As(err, &pf):
			logrus.Warnf("run degraded: %v", pf)
		default:
			logrus.Fatalf("distribute: %v", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			logrus.Fatalf("encode envelope: %v", err)
		}

		if reportPath != "" {
			if err := report.WriteFile(env, reportPath); err != nil {
				logrus.Fatalf("write report: %v", err)
			}
			logrus.Infof("report written to %s", reportPath)
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&reportPath, "report", "", "Write an XLSX distribution report to this path")
	rootCmd.AddCommand(runCmd)
}
