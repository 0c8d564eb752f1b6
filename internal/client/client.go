// Package client talks to the remote lexical search engine.
//
// It is collaborator glue, not part of the ranking core: network failures
// and malformed responses stop here and surface as coded errors. A failed
// fan-out request simply means fewer hits reach the session.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	errs "github.com/mwmbl/ranker/internal/errors"
)

// DefaultEndpoint is the public mwmbl search API.
const DefaultEndpoint = "https://api.mwmbl.org/search"

// Hit is one raw search result as returned by the remote engine. Absent or
// null fields decode to empty strings; the session normalizes further.
type Hit struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// Searcher issues a single lexical search request for one term.
type Searcher interface {
	Search(ctx context.Context, term string, limit int) ([]Hit, error)
}

// Client is an HTTP Searcher against a mwmbl-style search API.
type Client struct {
	endpoint string
	http     *http.Client
	retry    RetryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the search API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetry overrides the retry behavior.
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a search client with default endpoint, timeout, and retry.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		retry:    DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search requests hits for one term. Transport errors and 5xx responses are
// retried with exponential backoff; 4xx responses fail immediately.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Hit, error) {
	var hits []Hit
	err := doWithRetry(ctx, c.retry, func() error {
		var err error
		hits, err = c.search(ctx, term, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("remote_search",
		slog.String("term", term),
		slog.Int("hits", len(hits)))
	return hits, nil
}

func (c *Client) search(ctx context.Context, term string, limit int) ([]Hit, error) {
	q := url.Values{}
	q.Set("q", term)
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errs.UpstreamError("building search request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.New(errs.ErrCodeNetworkUnavailable, "search request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, errs.UpstreamError(fmt.Sprintf("search returned %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, &permanentError{errs.New(errs.ErrCodeInvalidInput,
			fmt.Sprintf("search returned %d", resp.StatusCode), nil)}
	}

	var envelope struct {
		Results []Hit `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &permanentError{errs.UpstreamError("decoding search response", err)}
	}

	if limit > 0 && len(envelope.Results) > limit {
		envelope.Results = envelope.Results[:limit]
	}
	return envelope.Results, nil
}
