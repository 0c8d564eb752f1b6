package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/mwmbl/ranker/internal/errors"
)

func testClient(url string) *Client {
	return New(
		WithEndpoint(url),
		WithTimeout(2*time.Second),
		WithRetry(RetryConfig{
			MaxRetries:   2,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   2.0,
		}),
	)
}

func TestSearch_DecodesEnvelope(t *testing.T) {
	// Given: a server returning the standard results envelope
	var gotTerm atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTerm.Store(r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"url":"https://example.com","title":"Example","extract":"An example."},
			{"url":"https://other.com","title":"Other","extract":"Another."}
		]}`))
	}))
	defer srv.Close()

	// When: searching one term
	hits, err := testClient(srv.URL).Search(context.Background(), "example", 10)

	// Then: hits decode in order and the term was passed through
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "https://example.com", hits[0].URL)
	assert.Equal(t, "Example", hits[0].Title)
	assert.Equal(t, "example", gotTerm.Load())
}

func TestSearch_MissingAndNullFieldsDecodeEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"url":null,"title":null},{}]}`))
	}))
	defer srv.Close()

	hits, err := testClient(srv.URL).Search(context.Background(), "x", 10)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, "", h.URL)
		assert.Equal(t, "", h.Title)
		assert.Equal(t, "", h.Extract)
	}
}

func TestSearch_LimitTruncatesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"url":"a"},{"url":"b"},{"url":"c"}]}`))
	}))
	defer srv.Close()

	hits, err := testClient(srv.URL).Search(context.Background(), "x", 2)

	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	// Given: a server that fails once then recovers
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"url":"a"}]}`))
	}))
	defer srv.Close()

	hits, err := testClient(srv.URL).Search(context.Background(), "x", 10)

	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_ClientErrorFailsFast(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "x", 10)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestSearch_MalformedBodyFailsFast(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "x", 10)

	require.Error(t, err)
	assert.Equal(t, errs.ErrCodeUpstreamSearch, errs.CodeOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Search(ctx, "x", 10)
	require.Error(t, err)
}
