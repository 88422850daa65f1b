// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package geoapify

import (
	"strconv"
	"strings"

	"github.com/tomtom215/tablescout/internal/geo"
	"github.com/tomtom215/tablescout/internal/models"
)

// featureCollection is the GeoJSON envelope shared by both APIs.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
	Geometry   struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

type properties struct {
	Name         string     `json:"name"`
	Street       string     `json:"street"`
	Formatted    string     `json:"formatted"`
	AddressLine1 string     `json:"address_line1"`
	Lon          *float64   `json:"lon"`
	Lat          *float64   `json:"lat"`
	Website      string     `json:"website"`
	OpeningHours string     `json:"opening_hours"`
	Categories   []string   `json:"categories"`
	Rating       *float64   `json:"rating"`
	BBox         []float64  `json:"bbox"`
	Datasource   datasource `json:"datasource"`
}

type datasource struct {
	Raw map[string]interface{} `json:"raw"`
}

func (f *feature) coords() (lon, lat float64, ok bool) {
	if f.Properties.Lon != nil && f.Properties.Lat != nil {
		return *f.Properties.Lon, *f.Properties.Lat, true
	}
	if len(f.Geometry.Coordinates) >= 2 {
		return f.Geometry.Coordinates[0], f.Geometry.Coordinates[1], true
	}
	return 0, 0, false
}

func parseGeocode(fc *featureCollection) *geo.GeocodeResult {
	if len(fc.Features) == 0 {
		return nil
	}
	f := &fc.Features[0]
	lon, lat, ok := f.coords()
	if !ok {
		return nil
	}
	res := &geo.GeocodeResult{
		Center: models.LatLon{Lat: lat, Lon: lon},
		Label:  f.Properties.Formatted,
	}
	if b := f.Properties.BBox; len(b) == 4 {
		box := models.BBox{MinLon: b[0], MinLat: b[1], MaxLon: b[2], MaxLat: b[3]}
		if box.Valid() {
			res.BBox = &box
		}
	}
	return res
}

// parsePlaces converts features into place records. Features without a
// coordinate are skipped.
func parsePlaces(fc *featureCollection) []models.PlaceRecord {
	out := make([]models.PlaceRecord, 0, len(fc.Features))
	for i := range fc.Features {
		f := &fc.Features[i]
		lon, lat, ok := f.coords()
		if !ok {
			continue
		}
		p := f.Properties
		raw := p.Datasource.Raw

		name := firstNonEmpty(p.Name, p.Street, "Restaurant")
		place := models.PlaceRecord{
			Name:          name,
			Address:       firstNonEmpty(p.Formatted, p.AddressLine1),
			Lon:           lon,
			Lat:           lat,
			Website:       firstNonEmpty(p.Website, rawString(raw, "website"), rawString(raw, "contact:website")),
			OpeningHours:  firstNonEmpty(p.OpeningHours, rawString(raw, "opening_hours")),
			DatasourceURL: rawString(raw, "url"),
			Tags:          append([]string(nil), p.Categories...),
			Rating:        p.Rating,
			PriceLevel:    priceLevel(raw),
		}
		if place.Tags == nil {
			place.Tags = []string{}
		}
		if cuisine := rawString(raw, "cuisine"); cuisine != "" {
			for _, c := range strings.Split(cuisine, ";") {
				if c = strings.TrimSpace(c); c != "" {
					place.Tags = append(place.Tags, "cuisine."+strings.ToLower(c))
				}
			}
		}
		place.EnsureDatasourceURL()
		out = append(out, place)
	}
	return out
}

// priceLevel reads a 1-4 price level from raw OSM/Foursquare-style keys:
// a numeric "price_level" or a "$$" style "price" string.
func priceLevel(raw map[string]interface{}) int {
	switch v := raw["price_level"].(type) {
	case float64:
		return clampLevel(int(v))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return clampLevel(n)
		}
	}
	if s := rawString(raw, "price"); s != "" && strings.Trim(s, "$") == "" {
		return clampLevel(len(s))
	}
	return 0
}

func clampLevel(n int) int {
	if n < 1 || n > 4 {
		return 0
	}
	return n
}

func rawString(raw map[string]interface{}, key string) string {
	if s, ok := raw[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
