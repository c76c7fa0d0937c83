package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/enterstudio/botimport/internal/config"
	"github.com/enterstudio/botimport/internal/importer"
	"github.com/enterstudio/botimport/internal/server"
	"github.com/enterstudio/botimport/internal/store"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the import server",
	Long: `Run an HTTP server accepting archived bundles.

Endpoints:
  POST /backup/import  - import an archive (zip body); answers 201 with
                         the new bot's reference in the Location header,
                         500 on failure, 504 when the 60s deadline passes
  GET  /healthz        - liveness probe
  GET  /metrics        - Prometheus metrics

Examples:
  botimport serve
  botimport serve --listen :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveListen
	if addr == "" {
		addr = config.ListenAddr()
	}

	serverURL := config.ServerURL()
	if !store.IsAvailable(serverURL) {
		fmt.Printf("Warning: destination service not reachable at %s\n", serverURL)
	}

	imp := importer.New(store.NewClient(serverURL))
	srv := server.New(imp, config.TmpDir(), config.ImportTimeout())

	log.Printf("import server listening on %s (destination: %s)", addr, serverURL)
	return http.ListenAndServe(addr, srv)
}
