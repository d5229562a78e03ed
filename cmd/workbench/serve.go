// Serve command: run the HTTP admin API.
package main

import (
	"github.com/spf13/cobra"

	"github.com/venturelab/workbench/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP admin API",
	Long: `Serve exposes the workspace over HTTP. Requests need the bearer token
from WORKBENCH_API_TOKEN (a .env file is honored); with no token configured
the API is open, for local use only.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default: config listen_addr or 127.0.0.1:8787)")
}

func runServe(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	addr := serveListen
	if addr == "" {
		addr = configListenAddr
	}

	s := server.New(backend, server.Options{ListenAddr: addr})
	return s.Run()
}
