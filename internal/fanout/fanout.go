// Package fanout orchestrates the per-term search requests for a session.
//
// One request is issued per derived query term, in parallel. Every returned
// hit is streamed into the session; the session's own locking makes the
// concurrent ingests safe. Individual term failures only shrink the result
// set — partial results are a normal outcome, not an error.
package fanout

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwmbl/ranker/internal/client"
	"github.com/mwmbl/ranker/internal/session"
)

// SearchFunc executes a single search request for one term. The indirection
// allows the orchestrator to be tested without HTTP.
type SearchFunc func(ctx context.Context, term string, limit int) ([]client.Hit, error)

// Searcher fans a session's query terms out to the remote engine.
type Searcher struct {
	search       SearchFunc
	parallelism  int
	perTermLimit int
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithParallelism caps concurrent in-flight requests.
func WithParallelism(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithPerTermLimit caps hits requested per term.
func WithPerTermLimit(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.perTermLimit = n
		}
	}
}

// New creates a fan-out searcher around the given search function.
func New(search SearchFunc, opts ...Option) *Searcher {
	s := &Searcher{
		search:       search,
		parallelism:  4,
		perTermLimit: 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run issues one search per session term and ingests every hit. It returns
// once all requests have completed, so the caller can finalize immediately
// afterwards without racing in-flight ingests. The only error Run reports
// is context cancellation; failed terms are logged and skipped.
func (s *Searcher) Run(ctx context.Context, sess *session.Session) error {
	start := time.Now()
	terms := sess.Terms()
	if len(terms) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.parallelism)

	for _, term := range terms {
		term := term
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			hits, err := s.search(gctx, term, s.perTermLimit)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("fanout_term_failed",
					slog.String("term", term),
					slog.String("error", err.Error()))
				return nil
			}

			for _, h := range hits {
				if err := sess.Ingest(h.URL, h.Title, h.Extract); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Debug("fanout_complete",
		slog.String("query", sess.Query()),
		slog.Int("terms", len(terms)),
		slog.Int("hits", sess.Len()),
		slog.Duration("duration", time.Since(start)))
	return nil
}
