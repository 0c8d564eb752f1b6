package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwmbl/ranker/internal/output"
	"github.com/mwmbl/ranker/internal/query"
)

func newTermsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terms <query>",
		Short: "Show the fan-out terms derived from a query",
		Long: `Show the terms the ranker derives from a query, in the order
they would be searched: normalized words first, then adjacent-word bigrams.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			terms := query.Analyze(strings.Join(args, " "))
			output.New(cmd.OutOrStdout()).Terms(terms)
			return nil
		},
	}
}
