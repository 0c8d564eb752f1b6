package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwmbl/ranker/internal/rank"
)

func TestSearchCmd_EndToEnd(t *testing.T) {
	// Given: a stub search engine
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[
			{"url":"https://example.com/other","title":"Other","extract":"nothing relevant"},
			{"url":"https://rust-lang.org","title":"Rust programming","extract":"The rust programming language."}
		]}`))
	}))
	defer srv.Close()
	t.Setenv("RANKER_ENDPOINT", srv.URL)

	// When: searching with JSON output
	out, err := execute(t, "search", "rust", "programming", "--format", "json")
	require.NoError(t, err)

	// Then: the relevant page ranks first
	var results []rank.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "https://rust-lang.org", results[0].URL)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchCmd_LimitFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[
			{"url":"https://a.example.com"},
			{"url":"https://b.example.com"},
			{"url":"https://c.example.com"}
		]}`))
	}))
	defer srv.Close()
	t.Setenv("RANKER_ENDPOINT", srv.URL)

	out, err := execute(t, "search", "web", "--limit", "1", "--format", "json")
	require.NoError(t, err)

	var results []rank.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Len(t, results, 1)
}

func TestSearchCmd_UpstreamDownYieldsEmptyResults(t *testing.T) {
	// A dead upstream means partial (here: zero) results, not a CLI error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	t.Setenv("RANKER_ENDPOINT", srv.URL)
	t.Setenv("RANKER_TIMEOUT", "2s")

	out, err := execute(t, "search", "web", "--format", "json")
	require.NoError(t, err)

	var results []rank.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Empty(t, results)
}
