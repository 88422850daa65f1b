// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// LatLon is a WGS84 coordinate.
type LatLon struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// String renders the coordinate with 5 decimals (about 1 m).
func (l LatLon) String() string {
	return fmt.Sprintf("%.5f,%.5f", l.Lat, l.Lon)
}

// AnchorType records which signal produced the search center.
type AnchorType string

const (
	AnchorCoord   AnchorType = "coordinates"
	AnchorPOI     AnchorType = "poi"
	AnchorZIP     AnchorType = "zip"
	AnchorArea    AnchorType = "area"
	AnchorCity    AnchorType = "city"
	AnchorSession AnchorType = "session"
	AnchorDefault AnchorType = "default_region"
)

// BBox is a rectangle in (min_lon, min_lat, max_lon, max_lat) order. It
// serializes as a four-element array, the order place-search providers expect.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Valid reports whether min < max on both axes.
func (b BBox) Valid() bool {
	return b.MinLon < b.MaxLon && b.MinLat < b.MaxLat
}

// Contains reports whether p lies inside the box (edges inclusive).
func (b BBox) Contains(p LatLon) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Center returns the midpoint of the box.
func (b BBox) Center() LatLon {
	return LatLon{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}

// Array returns the box as [min_lon, min_lat, max_lon, max_lat].
func (b BBox) Array() [4]float64 {
	return [4]float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat}
}

// MarshalJSON implements json.Marshaler.
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Array())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var arr [4]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("bbox: %w", err)
	}
	b.MinLon, b.MinLat, b.MaxLon, b.MaxLat = arr[0], arr[1], arr[2], arr[3]
	return nil
}

// SearchArea is the resolved geographic scope of one request.
type SearchArea struct {
	Center      LatLon     `json:"center"`
	BBox        BBox       `json:"bbox"`
	RadiusKM    float64    `json:"radius_km"`
	AnchorType  AnchorType `json:"anchor_type"`
	AnchorLabel string     `json:"anchor_label"`
}
