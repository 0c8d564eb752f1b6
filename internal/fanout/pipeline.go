package fanout

import (
	"context"

	"github.com/mwmbl/ranker/internal/rank"
	"github.com/mwmbl/ranker/internal/session"
)

// Pipeline runs the whole re-ranking flow for one query: create a session,
// fan out, finalize. It is the single entry point shared by the CLI and the
// MCP server.
type Pipeline struct {
	fan     *Searcher
	weights rank.Weights
}

// NewPipeline creates a pipeline around the given search function.
func NewPipeline(search SearchFunc, weights rank.Weights, opts ...Option) *Pipeline {
	return &Pipeline{
		fan:     New(search, opts...),
		weights: weights,
	}
}

// Search executes one complete search action and returns the ranked results.
// The session lives and dies inside this call.
func (p *Pipeline) Search(ctx context.Context, q string) ([]rank.Result, error) {
	sess := session.NewWithWeights(q, p.weights)
	if err := p.fan.Run(ctx, sess); err != nil {
		return nil, err
	}
	return sess.Finalize()
}

// Terms returns the fan-out terms that Search would issue for q.
func (p *Pipeline) Terms(q string) []string {
	return session.New(q).Terms()
}
