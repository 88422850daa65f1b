// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package cache

import (
	"math"

	"github.com/tomtom215/tablescout/internal/geo"
)

// kmPerDegree approximates one degree of latitude.
const kmPerDegree = 111.0

type cellKey struct {
	X, Y int
}

type spatialEntry[V any] struct {
	lat, lon float64
	value    V
}

// ProximityIndex buckets points into a uniform grid so that "anything within
// r km of here?" only inspects the neighboring cells. It is not safe for
// concurrent use; callers build one per request.
type ProximityIndex[V any] struct {
	cellDeg float64
	cells   map[cellKey][]spatialEntry[V]
	size    int
}

// NewProximityIndex creates an index with cells of roughly cellSizeKm.
func NewProximityIndex[V any](cellSizeKm float64) *ProximityIndex[V] {
	if cellSizeKm <= 0 {
		cellSizeKm = 0.05
	}
	return &ProximityIndex[V]{
		cellDeg: cellSizeKm / kmPerDegree,
		cells:   make(map[cellKey][]spatialEntry[V]),
	}
}

func (g *ProximityIndex[V]) key(lat, lon float64) cellKey {
	return cellKey{X: int(math.Floor(lon / g.cellDeg)), Y: int(math.Floor(lat / g.cellDeg))}
}

// Insert adds a point.
func (g *ProximityIndex[V]) Insert(lat, lon float64, value V) {
	k := g.key(lat, lon)
	g.cells[k] = append(g.cells[k], spatialEntry[V]{lat: lat, lon: lon, value: value})
	g.size++
}

// Nearby returns values within radiusKm of (lat, lon), nearest cells first.
func (g *ProximityIndex[V]) Nearby(lat, lon, radiusKm float64) []V {
	// Longitude degrees shrink with latitude; widen the scan accordingly.
	latSpan := int(math.Ceil(radiusKm/kmPerDegree/g.cellDeg)) + 1
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonSpan := int(math.Ceil(radiusKm/(kmPerDegree*cosLat)/g.cellDeg)) + 1

	center := g.key(lat, lon)
	var out []V
	for dy := -latSpan; dy <= latSpan; dy++ {
		for dx := -lonSpan; dx <= lonSpan; dx++ {
			for _, e := range g.cells[cellKey{X: center.X + dx, Y: center.Y + dy}] {
				if geo.HaversineKM(lat, lon, e.lat, e.lon) <= radiusKm {
					out = append(out, e.value)
				}
			}
		}
	}
	return out
}

// Len returns the number of inserted points.
func (g *ProximityIndex[V]) Len() int {
	return g.size
}
