package cmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwmbl/ranker/internal/client"
	"github.com/mwmbl/ranker/internal/config"
	"github.com/mwmbl/ranker/internal/fanout"
	"github.com/mwmbl/ranker/internal/output"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit  int
	format string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the web and re-rank the results",
		Long: `Search the remote lexical engine and re-rank the results.

One request is issued per derived query term; the combined, deduplicated
hits are scored against the original query and printed best first.

Examples:
  ranker search "rust programming"
  ranker search "garden birds" --limit 5 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	results, err := newPipeline(cfg).Search(ctx, query)
	if err != nil {
		return err
	}
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	output.New(cmd.OutOrStdout()).Results(results)
	return nil
}

// newPipeline wires config into the client, cache, and fan-out orchestrator.
func newPipeline(cfg *config.Config) *fanout.Pipeline {
	c := client.New(
		client.WithEndpoint(cfg.Search.Endpoint),
		client.WithTimeout(cfg.Search.Timeout),
		client.WithRetry(retryConfig(cfg)),
	)
	cached := client.NewCached(c, cfg.Search.CacheSize)

	return fanout.NewPipeline(
		cached.Search,
		cfg.Ranking,
		fanout.WithParallelism(cfg.Search.Parallelism),
		fanout.WithPerTermLimit(cfg.Search.PerTermLimit),
	)
}

func retryConfig(cfg *config.Config) client.RetryConfig {
	rc := client.DefaultRetryConfig()
	rc.MaxRetries = cfg.Search.MaxRetries
	return rc
}
