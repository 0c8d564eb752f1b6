package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mwmbl/ranker/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve re-ranked search over MCP stdio",
		Long: `Run an MCP server on stdio exposing the search pipeline as tools.

AI clients get a "search" tool returning re-ranked results and a
"query_terms" tool showing the fan-out derivation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(newPipeline(cfg))
			if err != nil {
				return err
			}

			slog.Info("mcp_server_starting")
			return server.Run(cmd.Context())
		},
	}
}
