// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package places

import (
	"github.com/tomtom215/tablescout/internal/cache"
	"github.com/tomtom215/tablescout/internal/models"
)

// Dedup collapses duplicate places: equal identity keys, or equal normalized
// names within radiusM metres. The richer record wins and ties keep the one
// seen first; survivors keep first-appearance order. The result is a fixed
// point, so Dedup(Dedup(x)) == Dedup(x).
func Dedup(places []models.PlaceRecord, radiusM float64) []models.PlaceRecord {
	out := places
	for {
		next := dedupOnce(out, radiusM/1000)
		if len(next) == len(out) {
			return next
		}
		out = next
	}
}

func dedupOnce(places []models.PlaceRecord, radiusKm float64) []models.PlaceRecord {
	out := make([]models.PlaceRecord, 0, len(places))
	names := make([]string, 0, len(places))
	byKey := make(map[string]int, len(places))
	index := cache.NewProximityIndex[int](radiusKm * 10)

	for _, p := range places {
		key := p.IdentityKey()
		name := models.NormalizeName(p.Name)

		j, dup := byKey[key]
		if !dup {
			for _, cand := range index.Nearby(p.Lat, p.Lon, radiusKm) {
				if names[cand] == name {
					j, dup = cand, true
					break
				}
			}
		}

		if dup {
			if p.Richness() > out[j].Richness() {
				out[j] = p
			}
			byKey[key] = j
			// Index every merged location so later neighbors of any of them match.
			index.Insert(p.Lat, p.Lon, j)
			continue
		}

		j = len(out)
		out = append(out, p)
		names = append(names, name)
		byKey[key] = j
		index.Insert(p.Lat, p.Lon, j)
	}
	return out
}
