package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prtriage/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the routing and merge pipeline.

Endpoints:
  GET  /health        — Health check
  POST /api/plan      — Route a diff to agents
  POST /api/merge     — Merge agent results
  POST /api/classify  — Classify changed file paths
  GET  /api/ws        — WebSocket for interactive triage sessions`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, api.Options{
		Roster:       configuredRoster(),
		Matcher:      configuredMatcher(),
		MaxResultAge: configuredMaxResultAge(),
	})
	return srv.ListenAndServe()
}
