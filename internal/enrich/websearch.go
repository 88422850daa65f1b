// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/upstream"
)

const (
	webSearchProvider = "websearch"

	// DefaultMaxResults is how many search hits are requested per place.
	DefaultMaxResults = 6
)

// WebSearchConfig configures a Tavily-compatible search client.
type WebSearchConfig struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	Timeout    time.Duration
	Breaker    upstream.BreakerSettings
}

// WebSearchSource finds review and menu pages through a web search API.
type WebSearchSource struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
	breaker    *upstream.Breaker
}

var _ DetailSource = (*WebSearchSource)(nil)

// NewWebSearchSource creates a search-backed detail source.
func NewWebSearchSource(cfg WebSearchConfig) (*WebSearchSource, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("websearch: base URL is required")
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &WebSearchSource{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		httpClient: upstream.NewHTTPClient(cfg.Timeout),
		breaker:    upstream.NewBreaker(webSearchProvider, cfg.Breaker),
	}, nil
}

// Name implements DetailSource.
func (s *WebSearchSource) Name() string { return webSearchProvider }

type searchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Fetch searches for the place's menu and review pages.
func (s *WebSearchSource) Fetch(ctx context.Context, place *models.PlaceRecord, lang string) (*DetailResult, error) {
	query := strings.Join(strings.Fields(place.Name+" "+place.Address+" menu signature dishes reviews"), " ")

	header := http.Header{}
	if s.apiKey != "" {
		header.Set("Authorization", "Bearer "+s.apiKey)
	}
	if lang != "" {
		header.Set("Accept-Language", lang)
	}

	resp, err := upstream.Execute(s.breaker, func() (*searchResponse, error) {
		var out searchResponse
		err := upstream.DoJSON(ctx, s.httpClient, upstream.Request{
			Provider:  webSearchProvider,
			Operation: "search",
			Method:    http.MethodPost,
			URL:       s.baseURL + "/search",
			Header:    header,
			Body:      searchRequest{Query: query, MaxResults: s.maxResults, SearchDepth: "basic"},
		}, &out)
		return &out, err
	})
	if err != nil {
		return nil, fmt.Errorf("websearch %q: %w", place.Name, err)
	}

	result := &DetailResult{}
	var text strings.Builder
	for _, r := range resp.Results {
		weight := SourceWeight(r.URL, place.Name)
		if weight <= 0 {
			continue
		}
		title := r.Title
		if title == "" {
			title = r.URL
		}
		result.Sources = append(result.Sources, models.SourceRef{Title: title, URL: r.URL, Weight: weight})
		if r.Content == "" {
			continue
		}
		fmt.Fprintf(&text, "Source: %s\nURL: %s\n%s\n", title, r.URL, r.Content)
		if rating, ok := snippetRating(r.Content); ok && !contains(result.Ratings, rating) {
			result.Ratings = append(result.Ratings, rating)
		}
	}
	result.Sources = DedupSources(result.Sources)
	result.Text = text.String()
	if len(result.Text) > maxDetailText {
		result.Text = result.Text[:maxDetailText]
	}
	return result, nil
}

// Ping checks the search API with a minimal query.
func (s *WebSearchSource) Ping(ctx context.Context) error {
	_, err := s.Fetch(ctx, &models.PlaceRecord{Name: "restaurant"}, "")
	return err
}
