package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rengenols/dispatch/dispatch"
	"github.com/rengenols/dispatch/httpapi"
)

var listenAddr string // HTTP listen address

// serveCmd hosts the engine over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the distribution API over HTTP",
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

		registry := prometheus.NewRegistry()
		metrics := dispatch.NewMetrics(registry)
		engine := dispatch.NewEngine(cfg, dispatch.SystemClock{}, store, store, store, metrics)

		srv := httpapi.New(engine, store, store, registry)
		if err := srv.Start(listenAddr); err != nil {
			logrus.Fatalf("serve: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}
