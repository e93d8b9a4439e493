package main

import (
	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation HTTP API",
		Long: `Starts an HTTP server with:
  GET  /healthz       liveness probe
  GET  /v1/tests      the test identifiers and labels
  POST /v1/evaluate   {"residuals": [...]} evaluated as JSON, or ?format=csv|txt|md|html

The calibration is loaded on the first evaluation and shared by all requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			server := c.deps.Server()
			return server.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
