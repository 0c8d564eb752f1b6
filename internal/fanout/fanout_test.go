package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwmbl/ranker/internal/client"
	"github.com/mwmbl/ranker/internal/session"
)

func TestRun_SearchesEveryTerm(t *testing.T) {
	// Given: a search stub recording terms
	var terms atomic.Int32
	search := func(_ context.Context, term string, _ int) ([]client.Hit, error) {
		terms.Add(1)
		return []client.Hit{{URL: "https://example.com/" + term}}, nil
	}

	// When: fanning out a two-word query
	sess := session.New("rust programming")
	err := New(search).Run(context.Background(), sess)

	// Then: one search per derived term (2 words + 1 bigram), all ingested
	require.NoError(t, err)
	assert.Equal(t, int32(3), terms.Load())
	assert.Equal(t, 3, sess.Len())
}

func TestRun_OverlappingHitsDeduplicate(t *testing.T) {
	search := func(context.Context, string, int) ([]client.Hit, error) {
		// Every term returns the same page.
		return []client.Hit{{URL: "https://example.com", Title: "same"}}, nil
	}

	sess := session.New("rust programming")
	require.NoError(t, New(search).Run(context.Background(), sess))

	assert.Equal(t, 1, sess.Len())
}

func TestRun_TermFailureYieldsPartialResults(t *testing.T) {
	// Given: one term fails, the others succeed
	search := func(_ context.Context, term string, _ int) ([]client.Hit, error) {
		if term == "programming" {
			return nil, errors.New("upstream down")
		}
		return []client.Hit{{URL: "https://example.com/" + term}}, nil
	}

	sess := session.New("rust programming")
	err := New(search).Run(context.Background(), sess)

	// Then: no error; the failed term just contributes nothing
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Len())

	results, err := sess.Finalize()
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRun_EmptyQueryDoesNothing(t *testing.T) {
	called := false
	search := func(context.Context, string, int) ([]client.Hit, error) {
		called = true
		return nil, nil
	}

	sess := session.New("   ")
	require.NoError(t, New(search).Run(context.Background(), sess))
	assert.False(t, called)
	assert.Zero(t, sess.Len())
}

func TestRun_RespectsParallelismCap(t *testing.T) {
	// Given: a slow search tracking concurrent invocations
	var inFlight, peak atomic.Int32
	block := make(chan struct{})
	search := func(context.Context, string, int) ([]client.Hit, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-block
		inFlight.Add(-1)
		return nil, nil
	}

	sess := session.New("a b c d e f")
	done := make(chan error, 1)
	go func() {
		done <- New(search, WithParallelism(2)).Run(context.Background(), sess)
	}()

	// When: releasing all requests
	close(block)
	require.NoError(t, <-done)

	// Then: never more than two in flight
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRun_ContextCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	search := func(context.Context, string, int) ([]client.Hit, error) {
		return []client.Hit{{URL: "https://example.com"}}, nil
	}

	err := New(search).Run(ctx, session.New("rust programming"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_PerTermLimitPassedThrough(t *testing.T) {
	var gotLimit atomic.Int32
	search := func(_ context.Context, _ string, limit int) ([]client.Hit, error) {
		gotLimit.Store(int32(limit))
		return nil, nil
	}

	sess := session.New("rust")
	require.NoError(t, New(search, WithPerTermLimit(7)).Run(context.Background(), sess))
	assert.Equal(t, int32(7), gotLimit.Load())
}

func TestRun_ManyTermsManyHits(t *testing.T) {
	search := func(_ context.Context, term string, limit int) ([]client.Hit, error) {
		hits := make([]client.Hit, 0, 5)
		for i := 0; i < 5; i++ {
			hits = append(hits, client.Hit{URL: fmt.Sprintf("https://%s.example.com/%d", term, i)})
		}
		return hits, nil
	}

	sess := session.New("one two three four")
	require.NoError(t, New(search).Run(context.Background(), sess))

	// 4 words + 3 bigrams, 5 unique hits each; bigram hostnames contain a
	// space so they still count as distinct urls.
	assert.Equal(t, 7*5, sess.Len())
}
