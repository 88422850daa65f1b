// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package places

import (
	"reflect"
	"testing"

	"github.com/tomtom215/tablescout/internal/models"
)

// metre is roughly one metre of latitude in degrees.
const metre = 1.0 / 110574

func TestDedup(t *testing.T) {
	rating := models.Float(4.6)

	tests := []struct {
		name      string
		in        []models.PlaceRecord
		wantNames []string
		wantWeb   string // website of the first survivor
	}{
		{
			name: "same identity key keeps richer",
			in: []models.PlaceRecord{
				{Name: "Cafe Flora", Lat: 47.6284, Lon: -122.2957},
				{Name: "Cafe Flora!", Lat: 47.62841, Lon: -122.29571, Website: "https://cafeflora.com", Rating: rating},
			},
			wantNames: []string{"Cafe Flora!"},
			wantWeb:   "https://cafeflora.com",
		},
		{
			name: "same name within 5 m",
			in: []models.PlaceRecord{
				{Name: "Plum Bistro", Lat: 47.6145, Lon: -122.3178, Website: "https://plum.example"},
				{Name: "plum bistro", Lat: 47.6145 + 3*metre, Lon: -122.3178},
			},
			wantNames: []string{"Plum Bistro"},
			wantWeb:   "https://plum.example",
		},
		{
			name: "same name far apart",
			in: []models.PlaceRecord{
				{Name: "Starbucks", Lat: 47.6145, Lon: -122.3178},
				{Name: "Starbucks", Lat: 47.6145 + 50*metre, Lon: -122.3178},
			},
			wantNames: []string{"Starbucks", "Starbucks"},
		},
		{
			name: "different names close together",
			in: []models.PlaceRecord{
				{Name: "Sushi Kashiba", Lat: 47.6097, Lon: -122.3422},
				{Name: "Pike Place Chowder", Lat: 47.6097 + 2*metre, Lon: -122.3422},
			},
			wantNames: []string{"Sushi Kashiba", "Pike Place Chowder"},
		},
		{
			name: "tie keeps first seen",
			in: []models.PlaceRecord{
				{Name: "Dick's Drive-In", Lat: 47.6193, Lon: -122.3210, Address: "first"},
				{Name: "Dicks Drive-In", Lat: 47.6193, Lon: -122.3210, Address: "second"},
			},
			wantNames: []string{"Dick's Drive-In"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dedup(tt.in, DefaultDedupRadiusM)
			var names []string
			for _, p := range got {
				names = append(names, p.Name)
			}
			if !reflect.DeepEqual(names, tt.wantNames) {
				t.Fatalf("names = %v, want %v", names, tt.wantNames)
			}
			if tt.wantWeb != "" && got[0].Website != tt.wantWeb {
				t.Errorf("website = %q, want %q", got[0].Website, tt.wantWeb)
			}
		})
	}
}

func TestDedup_Idempotent(t *testing.T) {
	// A chain of same-name points 4 m apart: each is a duplicate of its
	// neighbor, so one pass may leave survivors that a second pass would merge.
	var in []models.PlaceRecord
	for i := 0; i < 6; i++ {
		p := models.PlaceRecord{Name: "Chain Cafe", Lat: 47.6 + float64(i)*4*metre, Lon: -122.3}
		for j := 0; j < i%3; j++ {
			p.Tags = append(p.Tags, "catering.cafe")
		}
		in = append(in, p)
	}
	in = append(in, models.PlaceRecord{Name: "Other", Lat: 47.6, Lon: -122.3})

	once := Dedup(in, DefaultDedupRadiusM)
	twice := Dedup(once, DefaultDedupRadiusM)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Dedup not idempotent:\n once = %+v\ntwice = %+v", once, twice)
	}
	if len(once) != 2 {
		t.Errorf("len = %d, want 2 (chain collapsed plus Other)", len(once))
	}
}
