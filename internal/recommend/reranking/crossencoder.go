// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package reranking

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/tablescout/internal/recommend"
	"github.com/tomtom215/tablescout/internal/upstream"
)

const providerName = "rerank"

// Config configures the cross-encoder client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Breaker upstream.BreakerSettings
}

// CrossEncoder scores documents with a remote cross-encoder model.
type CrossEncoder struct {
	baseURL    string
	model      string
	httpClient *http.Client
	breaker    *upstream.Breaker
}

var _ recommend.Reranker = (*CrossEncoder)(nil)

// NewCrossEncoder creates a client for the service at cfg.BaseURL.
func NewCrossEncoder(cfg Config) (*CrossEncoder, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("rerank: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CrossEncoder{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: upstream.NewHTTPClient(timeout),
		breaker:    upstream.NewBreaker(providerName, cfg.Breaker),
	}, nil
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	Model     string   `json:"model,omitempty"`
	RawScores bool     `json:"raw_scores"`
}

type rerankResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Rerank returns one relevance score per document, in document order.
func (c *CrossEncoder) Rerank(ctx context.Context, query string, docs []string) ([]float64, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	results, err := upstream.Execute(c.breaker, func() ([]rerankResult, error) {
		var out []rerankResult
		err := upstream.DoJSON(ctx, c.httpClient, upstream.Request{
			Provider:  providerName,
			Operation: "rerank",
			Method:    http.MethodPost,
			URL:       c.baseURL + "/rerank",
			Body:      rerankRequest{Query: query, Texts: docs, Model: c.model},
		}, &out)
		return out, err
	})
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}

	scores := make([]float64, len(docs))
	seen := make([]bool, len(docs))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(docs) {
			return nil, fmt.Errorf("rerank: result index %d out of range", r.Index)
		}
		scores[r.Index] = r.Score
		seen[r.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("rerank: no score for document %d", i)
		}
	}
	return scores, nil
}

// Ping reports whether the service answers a one-document request.
func (c *CrossEncoder) Ping(ctx context.Context) error {
	_, err := c.Rerank(ctx, "ping", []string{"ping"})
	return err
}

// BreakerState reports the circuit breaker state for health output.
func (c *CrossEncoder) BreakerState() string {
	return c.breaker.State()
}
