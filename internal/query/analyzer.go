// Package query derives fan-out search terms from a raw user query.
//
// The caller issues one remote search request per derived term to widen
// coverage beyond the literal query, then feeds the responses back into a
// ranking session.
package query

import (
	"strings"
	"unicode"
)

// Analyze splits a query into normalized search terms: the individual words
// first, then adjacent-word bigrams. Terms are lowercased, stripped of
// leading and trailing punctuation, deduplicated, and returned in first-seen
// order. An empty or whitespace-only query yields no terms.
//
// Analyze is a pure function: identical input always yields identical output.
func Analyze(q string) []string {
	tokens := tokenize(q)
	if len(tokens) == 0 {
		return nil
	}

	terms := make([]string, 0, len(tokens)*2)
	seen := make(map[string]struct{}, len(tokens)*2)
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, tok := range tokens {
		add(tok)
	}
	// Bigrams widen recall for multi-word concepts ("rust programming")
	// that single-word searches miss.
	for i := 0; i+1 < len(tokens); i++ {
		add(tokens[i] + " " + tokens[i+1])
	}
	return terms
}

// Unigrams returns only the single-word terms of Analyze, in the same order.
// The ranking engine matches against words, not bigrams.
func Unigrams(q string) []string {
	tokens := tokenize(q)
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}

// tokenize lowercases and splits on whitespace, trimming surrounding
// punctuation from each word. Duplicates are kept; callers dedup.
func tokenize(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
