// Package session owns the lifecycle of one re-ranking search action.
//
// A Session is created per user search, accumulates normalized hits from
// concurrent fan-out requests, and is finalized exactly once into a ranked
// result sequence. It is discarded after the ranked output is consumed;
// nothing is shared across sessions.
package session

import (
	"strings"
	"sync"
	"unicode/utf8"

	errs "github.com/mwmbl/ranker/internal/errors"
	"github.com/mwmbl/ranker/internal/query"
	"github.com/mwmbl/ranker/internal/rank"
)

// State is the session lifecycle state.
type State int

const (
	// StateOpen accepts ingestion.
	StateOpen State = iota
	// StateRanked is terminal: the session has been finalized.
	StateRanked
)

// Field caps applied at ingestion. Oversized fields are truncated at a
// rune boundary rather than rejected.
const (
	MaxURLLength     = 200
	MaxTitleLength   = 100
	MaxExtractLength = 200
)

// Session accumulates search hits for one query and ranks them on demand.
// Ingest is safe for concurrent use by parallel fan-out requests.
type Session struct {
	originalQuery string
	terms         []string
	engine        *rank.Engine

	mu     sync.Mutex
	state  State
	order  []string            // urls in first-ingestion order
	hits   map[string]rank.Hit // keyed by url, first write wins
	ranked []rank.Result
}

// New creates an open session for the given query using default field
// weights.
func New(q string) *Session {
	return NewWithWeights(q, rank.DefaultWeights())
}

// NewWithWeights creates an open session with custom ranking weights.
func NewWithWeights(q string, w rank.Weights) *Session {
	return &Session{
		originalQuery: q,
		terms:         query.Analyze(q),
		engine:        rank.NewEngine(q, w),
		hits:          make(map[string]rank.Hit),
	}
}

// Query returns the original query string.
func (s *Session) Query() string {
	return s.originalQuery
}

// Terms returns the derived fan-out terms in first-occurrence order.
func (s *Session) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Len returns the number of distinct hits ingested so far.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Ingest stores one raw hit. Fields are truncated to their caps; a hit
// whose url is already present is silently dropped, keeping the first-seen
// title and extract. Hits without a url collapse into a single entry under
// the empty key. Returns an invalid-state error once the session is ranked.
func (s *Session) Ingest(url, title, extract string) error {
	url = truncate(strings.TrimSpace(url), MaxURLLength)
	title = truncate(title, MaxTitleLength)
	extract = truncate(extract, MaxExtractLength)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return errs.InvalidState("ingest on a ranked session")
	}
	if _, ok := s.hits[url]; ok {
		return nil
	}
	s.hits[url] = rank.Hit{URL: url, Title: title, Extract: extract}
	s.order = append(s.order, url)
	return nil
}

// Finalize scores every accumulated hit and returns the ranked sequence,
// transitioning the session to its terminal state. A second call returns an
// invalid-state error; use Results to re-read the ranked output. Zero hits
// finalize to an empty sequence.
func (s *Session) Finalize() ([]rank.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return nil, errs.InvalidState("finalize on a ranked session")
	}

	hits := make([]rank.Hit, len(s.order))
	for i, url := range s.order {
		hits[i] = s.hits[url]
	}
	s.ranked = s.engine.Rank(hits)
	s.state = StateRanked
	return s.ranked, nil
}

// Results returns the ranked sequence of a finalized session. Every call
// returns the same sequence. Fails with an invalid-state error if the
// session has not been finalized.
func (s *Session) Results() ([]rank.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRanked {
		return nil, errs.InvalidState("results before finalize")
	}
	return s.ranked, nil
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	end := max
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}
