// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package geoapify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/tablescout/internal/cache"
	"github.com/tomtom215/tablescout/internal/geo"
	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/upstream"
)

const (
	providerName = "geoapify"

	geocodePath = "/v1/geocode/search"
	placesPath  = "/v2/places"
)

// Config configures the client.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	GeocodeCacheTTL   time.Duration
	GeocodeCacheSize  int
	Breaker           upstream.BreakerSettings
}

// Client talks to Geoapify.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *upstream.Breaker
	geocodes   *cache.LRU[*geo.GeocodeResult]
}

var _ geo.Geocoder = (*Client)(nil)

// NewClient creates a client. A non-positive RequestsPerSecond disables the
// outbound limiter.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: upstream.NewHTTPClient(timeout),
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    upstream.NewBreaker(providerName, cfg.Breaker),
		geocodes:   cache.NewLRU[*geo.GeocodeResult](cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL),
	}
}

// Geocode returns the best match for text, or nil when there is none.
func (c *Client) Geocode(ctx context.Context, text, lang string) (*geo.GeocodeResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	key := lang + "|" + strings.ToLower(text)
	if res, ok := c.geocodes.Get(key); ok {
		metrics.RecordGeocodeCache(true)
		return res, nil
	}
	metrics.RecordGeocodeCache(false)

	params := url.Values{}
	params.Set("text", text)
	params.Set("limit", "1")
	if lang != "" {
		params.Set("lang", lang)
	}

	var fc featureCollection
	if err := c.get(ctx, "geocode", geocodePath, params, &fc); err != nil {
		return nil, err
	}

	res := parseGeocode(&fc)
	c.geocodes.Add(key, res)
	return res, nil
}

// PlacesInRect searches for places inside bbox, biased toward its center.
func (c *Client) PlacesInRect(ctx context.Context, bbox models.BBox, categories string, limit int, lang string) ([]models.PlaceRecord, error) {
	if !bbox.Valid() {
		return nil, fmt.Errorf("geoapify places: invalid bbox %v", bbox.Array())
	}
	if limit <= 0 {
		limit = 20
	}
	center := bbox.Center()

	params := url.Values{}
	params.Set("filter", "rect:"+joinFloats(bbox.MinLon, bbox.MinLat, bbox.MaxLon, bbox.MaxLat))
	params.Set("bias", "proximity:"+joinFloats(center.Lon, center.Lat))
	params.Set("limit", strconv.Itoa(limit))
	if categories != "" {
		params.Set("categories", categories)
	}
	if lang != "" {
		params.Set("lang", lang)
	}

	var fc featureCollection
	if err := c.get(ctx, "places", placesPath, params, &fc); err != nil {
		return nil, err
	}
	return parsePlaces(&fc), nil
}

// Ping checks reachability with an uncached one-result geocode.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("text", "Seattle")
	params.Set("limit", "1")
	var fc featureCollection
	return c.get(ctx, "ping", geocodePath, params, &fc)
}

// BreakerState reports the circuit breaker state for health output.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out *featureCollection) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("geoapify %s: %w", operation, err)
	}
	params.Set("apiKey", c.apiKey)

	_, err := upstream.Execute(c.breaker, func() (struct{}, error) {
		return struct{}{}, upstream.DoJSON(ctx, c.httpClient, upstream.Request{
			Provider:  providerName,
			Operation: operation,
			URL:       c.baseURL + path + "?" + params.Encode(),
		}, out)
	})
	if err != nil {
		return fmt.Errorf("geoapify %s: %w", operation, err)
	}
	return nil
}

func joinFloats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return strings.Join(parts, ",")
}
