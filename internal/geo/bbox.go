// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package geo

import (
	"math"

	"github.com/tomtom215/tablescout/internal/models"
)

const (
	kmPerDegreeLat   = 110.574
	kmPerDegreeLonEq = 111.320

	// minCosLat keeps longitude spans finite near the poles.
	minCosLat = 0.01
)

// BBoxAround returns the box extending km in every direction from center.
// A non-positive km yields a box of about 1 m so min < max still holds.
func BBoxAround(center models.LatLon, km float64) models.BBox {
	if km <= 0 {
		km = 0.001
	}
	dlat := km / kmPerDegreeLat
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	dlon := km / (kmPerDegreeLonEq * cosLat)

	return models.BBox{
		MinLon: clamp(center.Lon-dlon, -180, 180),
		MinLat: clamp(center.Lat-dlat, -90, 90),
		MaxLon: clamp(center.Lon+dlon, -180, 180),
		MaxLat: clamp(center.Lat+dlat, -90, 90),
	}
}

// ClampRadius bounds a requested radius to [minKm, maxKm], substituting def
// for a missing or non-finite value.
func ClampRadius(km, def, minKm, maxKm float64) float64 {
	if km <= 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		km = def
	}
	return clamp(km, minKm, maxKm)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
