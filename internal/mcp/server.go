// Package mcp exposes the re-ranking search pipeline over the Model Context
// Protocol, so AI clients can use re-ranked web search as a tool.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mwmbl/ranker/internal/fanout"
	"github.com/mwmbl/ranker/pkg/version"
)

// SearchInput defines the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the web search query to execute"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
}

// SearchOutput defines the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results" jsonschema:"re-ranked search results, best first"`
}

// SearchResultOutput is a single ranked result.
type SearchResultOutput struct {
	URL     string  `json:"url" jsonschema:"page URL"`
	Title   string  `json:"title" jsonschema:"page title, may be empty"`
	Extract string  `json:"extract" jsonschema:"page extract, may be empty"`
	Score   float64 `json:"score" jsonschema:"relevance score, higher is better"`
}

// TermsInput defines the input schema for the query_terms tool.
type TermsInput struct {
	Query string `json:"query" jsonschema:"the query to derive fan-out terms for"`
}

// TermsOutput defines the output schema for the query_terms tool.
type TermsOutput struct {
	Terms []string `json:"terms" jsonschema:"derived terms in fan-out order"`
}

// Server is the MCP server bridging AI clients with the search pipeline.
type Server struct {
	mcp      *mcp.Server
	pipeline *fanout.Pipeline
	logger   *slog.Logger
}

// NewServer creates an MCP server around the given pipeline.
func NewServer(pipeline *fanout.Pipeline) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline is required")
	}

	s := &Server{
		pipeline: pipeline,
		logger:   slog.Default(),
	}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "mwmbl-ranker",
			Version: version.Version,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Web search with client-side re-ranking. Fans the query out over derived terms, deduplicates the hits, and returns them ordered by relevance to the original query.",
	}, s.searchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "query_terms",
		Description: "Show the fan-out terms the ranker derives from a query, in the order they would be searched.",
	}, s.termsHandler)

	s.logger.Info("MCP tools registered", slog.Int("count", 2))
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// searchHandler executes one full search action.
func (s *Server) searchHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	if input.Query == "" {
		return nil, SearchOutput{}, NewInvalidParamsError("query parameter is required")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	results, err := s.pipeline.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}
	if len(results) > limit {
		results = results[:limit]
	}

	out := SearchOutput{Results: make([]SearchResultOutput, len(results))}
	for i, r := range results {
		out.Results[i] = SearchResultOutput{
			URL:     r.URL,
			Title:   r.Title,
			Extract: r.Extract,
			Score:   r.Score,
		}
	}
	return nil, out, nil
}

// termsHandler derives fan-out terms without searching.
func (s *Server) termsHandler(_ context.Context, _ *mcp.CallToolRequest, input TermsInput) (
	*mcp.CallToolResult,
	TermsOutput,
	error,
) {
	if input.Query == "" {
		return nil, TermsOutput{}, NewInvalidParamsError("query parameter is required")
	}
	terms := s.pipeline.Terms(input.Query)
	if terms == nil {
		terms = []string{}
	}
	return nil, TermsOutput{Terms: terms}, nil
}
