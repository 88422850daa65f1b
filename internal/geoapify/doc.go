// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package geoapify is the client for the Geoapify geocoding and places APIs.

Client implements geo.Geocoder (GET /v1/geocode/search) and places.Provider
(GET /v2/places with a rect filter). Every call goes through:

  - an outbound token-bucket limiter (golang.org/x/time/rate), since the free
    tier allows 5 requests per second
  - a circuit breaker named "geoapify" (internal/upstream)
  - per-call timeouts from the shared HTTP client

Geocode results, including "no match", are kept in an LRU cache for 30 minutes
(128 entries by default). Place searches are never cached: each request sees
fresh results.

API Reference: https://apidocs.geoapify.com/
*/
package geoapify
