// Package rank scores accumulated search hits against the original query and
// produces the final result ordering.
//
// The engine is built once per session from the query's unique words. Each
// hit is scored on four fields (title, extract, URL domain, URL path) and
// the hits are stably sorted by score descending, so ties keep ingestion
// order and the output is fully deterministic.
package rank

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/mwmbl/ranker/internal/query"
)

// matchExponent controls how sharply partial term matches are discounted.
const matchExponent = 2.0

// urlLengthDecay penalizes long URLs; shorter pages of equal relevance
// rank first.
const urlLengthDecay = 0.04

// Hit is a normalized search result awaiting scoring.
type Hit struct {
	URL     string
	Title   string
	Extract string
}

// Result is a scored hit, immutable once produced.
type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Extract string  `json:"extract"`
	Score   float64 `json:"score"`
}

// Weights are the per-field multipliers applied to field match scores.
type Weights struct {
	Title   float64 `yaml:"title" json:"title"`
	Extract float64 `yaml:"extract" json:"extract"`
	Domain  float64 `yaml:"domain" json:"domain"`
	Path    float64 `yaml:"path" json:"path"`
}

// DefaultWeights favors title and domain matches over extract matches.
func DefaultWeights() Weights {
	return Weights{Title: 4, Extract: 1, Domain: 4, Path: 2}
}

// Engine scores hits against one query. Safe for concurrent use once built.
type Engine struct {
	terms    *regexp.Regexp // word-boundary alternation over unique words, nil when the query is empty
	totalLen int            // summed length of the unique words
	numTerms int
	weights  Weights
}

// NewEngine builds an engine from the query's unique words, in first-seen
// order so that scoring is deterministic for a given query string.
func NewEngine(q string, w Weights) *Engine {
	terms := query.Unigrams(q)
	e := &Engine{weights: w}
	if len(terms) == 0 {
		return e
	}

	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
		e.totalLen += len(t)
	}
	e.numTerms = len(terms)
	e.terms = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return e
}

// Rank scores every hit and returns them ordered by score descending.
// The sort is stable: hits with equal scores keep their input order, which
// the session guarantees to be ingestion order. Always returns a non-nil
// slice.
func (e *Engine) Rank(hits []Hit) []Result {
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			URL:     h.URL,
			Title:   h.Title,
			Extract: h.Extract,
			Score:   e.Score(h),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Score computes the relevance of a single hit. A hit whose fields contain
// more distinct query words never scores below one containing fewer, all
// else equal: the distinct-term count dominates each field score, with the
// positional match score breaking ties within the same term count.
func (e *Engine) Score(h Hit) float64 {
	if e.terms == nil {
		return 0
	}

	domain, path := splitURL(h.URL)
	match := e.weights.Title*e.fieldScore(h.Title) +
		e.weights.Extract*e.fieldScore(h.Extract) +
		e.weights.Domain*e.fieldScore(domain) +
		e.weights.Path*e.fieldScore(path)

	lengthPenalty := math.Exp(-urlLengthDecay * float64(len(h.URL)))
	return match * lengthPenalty / 10.0
}

// fieldScore combines the distinct-term count with the positional score.
// The positional score lies in (0, 1], so one extra distinct term always
// outweighs any positional difference.
func (e *Engine) fieldScore(text string) float64 {
	f := e.features(text)
	return float64(f.numTerms) + f.score
}

// features holds the match measurements for one field of a hit.
type features struct {
	lastChar int // end offset of the last new-term match, min 1
	length   int // summed length of distinct-term matches
	numTerms int // distinct query words matched
	score    float64
}

// features matches the query words against one lowercased field. Repeated
// matches of the same word count once; the end of the last new match
// penalizes terms buried deep in the field.
func (e *Engine) features(text string) features {
	f := features{lastChar: 1}
	if text == "" {
		f.score = math.Pow(matchExponent, -float64(e.totalLen))
		return f
	}

	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, e.numTerms)
	for _, loc := range e.terms.FindAllStringIndex(lower, -1) {
		term := lower[loc[0]:loc[1]]
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		f.lastChar = loc[1]
		f.length += loc[1] - loc[0]
	}
	f.numTerms = len(seen)
	f.score = math.Pow(matchExponent, float64(f.length-e.totalLen)) / float64(f.lastChar)
	return f
}
