// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/models"
)

// Radius bounds applied to the requested distance.
const (
	MinRadiusKM = 0.5
	MaxRadiusKM = 50.0
)

// GeocodeResult is a geocoded point with the provider's extent, if any.
type GeocodeResult struct {
	Center models.LatLon
	BBox   *models.BBox
	Label  string
}

// Geocoder turns free text into a coordinate. A nil result with a nil error
// means "no match".
type Geocoder interface {
	Geocode(ctx context.Context, text, lang string) (*GeocodeResult, error)
}

// Region is a fixed fallback anchor.
type Region struct {
	Label  string
	Center models.LatLon
}

// ResolverConfig tunes search-area construction.
type ResolverConfig struct {
	DefaultDistanceKM float64
	PaddingKM         float64
	MaxRadiusKM       float64
	DefaultLang       string
	DefaultRegion     *Region // nil disables the last-resort region
}

// Resolver implements the area resolution priority order.
type Resolver struct {
	geocoder  Geocoder
	gazetteer *Gazetteer
	cfg       ResolverConfig
	logger    zerolog.Logger
}

// NewResolver creates a resolver. geocoder may be nil, in which case only
// coordinates, the gazetteer, the session center and the default region
// can produce a center.
func NewResolver(geocoder Geocoder, gazetteer *Gazetteer, cfg ResolverConfig) *Resolver {
	if gazetteer == nil {
		gazetteer = DefaultGazetteer()
	}
	if cfg.DefaultDistanceKM <= 0 {
		cfg.DefaultDistanceKM = models.DefaultDistanceKM
	}
	if cfg.MaxRadiusKM <= 0 || cfg.MaxRadiusKM > MaxRadiusKM {
		cfg.MaxRadiusKM = MaxRadiusKM
	}
	if cfg.PaddingKM < 0 {
		cfg.PaddingKM = 0
	}
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = models.DefaultLang
	}
	return &Resolver{
		geocoder:  geocoder,
		gazetteer: gazetteer,
		cfg:       cfg,
		logger:    logging.WithComponent("geo"),
	}
}

// Gazetteer returns the resolver's gazetteer.
func (r *Resolver) Gazetteer() *Gazetteer {
	return r.gazetteer
}

// Resolve picks the search center for prefs and builds the padded bbox.
// prefs.AnchorType and prefs.AnchorLabel are updated to the winning signal.
func (r *Resolver) Resolve(ctx context.Context, prefs *models.PreferenceRecord, userLocation, lastKnown *models.LatLon) (*models.SearchArea, error) {
	center, anchorType, label, err := r.center(ctx, prefs, userLocation, lastKnown)
	if err != nil {
		return nil, err
	}

	radius := ClampRadius(prefs.DistanceKM, r.cfg.DefaultDistanceKM, MinRadiusKM, r.cfg.MaxRadiusKM)
	prefs.AnchorType = anchorType
	prefs.AnchorLabel = label

	area := &models.SearchArea{
		Center:      center,
		BBox:        BBoxAround(center, radius+r.cfg.PaddingKM),
		RadiusKM:    radius,
		AnchorType:  anchorType,
		AnchorLabel: label,
	}

	r.logger.Debug().
		Str("anchor_type", string(anchorType)).
		Str("anchor_label", label).
		Str("center", center.String()).
		Float64("radius_km", radius).
		Msg("Search area resolved")

	return area, nil
}

func (r *Resolver) center(ctx context.Context, prefs *models.PreferenceRecord, userLocation, lastKnown *models.LatLon) (models.LatLon, models.AnchorType, string, error) {
	if userLocation != nil {
		return *userLocation, models.AnchorCoord, userLocation.String(), nil
	}

	lang := prefs.Lang
	if lang == "" {
		lang = r.cfg.DefaultLang
	}

	// Explicit anchors.
	if prefs.AnchorPOI != "" {
		query := prefs.AnchorPOI
		if prefs.City != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(prefs.City)) {
			query = prefs.AnchorPOI + " " + prefs.City
		}
		if res, err := r.geocode(ctx, query, lang); err != nil {
			return models.LatLon{}, "", "", err
		} else if res != nil {
			return res.Center, models.AnchorPOI, prefs.AnchorPOI, nil
		}
	}
	if prefs.AnchorZIP != "" {
		if res, err := r.geocode(ctx, prefs.AnchorZIP, lang); err != nil {
			return models.LatLon{}, "", "", err
		} else if res != nil {
			return res.Center, models.AnchorZIP, prefs.AnchorZIP, nil
		}
	}

	// Named city/area.
	if prefs.City != "" || prefs.Area != "" {
		center, anchorType, label, ok, err := r.named(ctx, prefs, lang)
		if err != nil {
			return models.LatLon{}, "", "", err
		}
		if ok {
			return center, anchorType, label, nil
		}
	}

	if lastKnown != nil {
		return *lastKnown, models.AnchorSession, "last session location", nil
	}

	if r.cfg.DefaultRegion != nil {
		return r.cfg.DefaultRegion.Center, models.AnchorDefault, r.cfg.DefaultRegion.Label, nil
	}

	return models.LatLon{}, "", "", models.ErrAreaUnresolved
}

// named resolves City/Area: gazetteer neighborhood, geocoded "city area",
// gazetteer city, geocoded city, in that order.
func (r *Resolver) named(ctx context.Context, prefs *models.PreferenceRecord, lang string) (models.LatLon, models.AnchorType, string, bool, error) {
	match, known := r.gazetteer.Lookup(prefs.City, prefs.Area)
	if known && match.Area != "" {
		return match.Center, models.AnchorArea, match.Area, true, nil
	}

	if prefs.Area != "" {
		query := strings.TrimSpace(prefs.City + " " + prefs.Area)
		res, err := r.geocode(ctx, query, lang)
		if err != nil {
			return models.LatLon{}, "", "", false, err
		}
		if res != nil {
			return res.Center, models.AnchorArea, prefs.Area, true, nil
		}
	}

	if known {
		return match.Center, models.AnchorCity, match.City, true, nil
	}

	if prefs.City != "" {
		res, err := r.geocode(ctx, prefs.City, lang)
		if err != nil {
			return models.LatLon{}, "", "", false, err
		}
		if res != nil {
			return res.Center, models.AnchorCity, prefs.City, true, nil
		}
	}
	return models.LatLon{}, "", "", false, nil
}

// geocode is soft: provider failures are logged and reported as no match.
// Only caller cancellation is returned as an error.
func (r *Resolver) geocode(ctx context.Context, text, lang string) (*GeocodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve area: %w", err)
	}
	if r.geocoder == nil {
		return nil, nil
	}
	res, err := r.geocoder.Geocode(ctx, text, lang)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("resolve area: %w", ctx.Err())
		}
		logging.Ctx(ctx).Warn().Err(err).Str("component", "geo").Str("query", text).
			Msg("Geocoding failed, trying next location signal")
		return nil, nil
	}
	return res, nil
}
