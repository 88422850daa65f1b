// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package geo turns a dining request's location signals into a search area.

# Overview

The package provides:
  - Great-circle distance (HaversineKM) and the km to mile conversion
  - Bounding boxes around a center using the equirectangular approximation
  - An offline US gazetteer of cities and neighborhoods with aliases
  - Resolver, which picks the search center in a fixed priority order

# Resolution Order

Resolver.Resolve tries, in order:

 1. Explicit user coordinates
 2. A POI or ZIP anchor, geocoded
 3. A named city/area: gazetteer first, then geocoding "city area", then "city"
 4. The last-known session location
 5. The configured default region (disabled unless configured)

Geocoding failures are soft: the next signal is tried. When nothing yields a
center the resolver returns models.ErrAreaUnresolved.

# Bounding Boxes

BBoxAround uses dlat = km/110.574 and dlon = km/(111.320*cos(lat)). The result
is always (min_lon, min_lat, max_lon, max_lat) with min < max on both axes.

# Thread Safety

Gazetteer is read-only after construction. Resolver holds no mutable state and
is safe for concurrent use provided its Geocoder is.
*/
package geo
