package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rengenols/dispatch/dispatch"
)

// previewCmd prints the snapshot counts without mutating anything.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show pending studies and on-shift doctor counts without distributing",
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
		res, err := engine.Preview(context.Background())
		if err != nil {
			logrus.Fatalf("preview: %v", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logrus.Fatalf("encode preview: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
