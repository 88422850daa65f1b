// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"context"

	"github.com/tomtom215/tablescout/internal/models"
)

// PlaceLinksSource turns the provider's own links into detail sources. It
// makes no network calls.
type PlaceLinksSource struct{}

var _ DetailSource = PlaceLinksSource{}

// Name implements DetailSource.
func (PlaceLinksSource) Name() string { return "place_links" }

// Fetch implements DetailSource.
func (PlaceLinksSource) Fetch(ctx context.Context, place *models.PlaceRecord, _ string) (*DetailResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var refs []models.SourceRef
	if place.Website != "" {
		refs = append(refs, models.SourceRef{
			Title:  place.Name + " (website)",
			URL:    place.Website,
			Weight: SourceWeight(place.Website, place.Name),
		})
	}
	if place.DatasourceURL != "" {
		refs = append(refs, models.SourceRef{
			Title:  place.Name + " (map)",
			URL:    place.DatasourceURL,
			Weight: SourceWeight(place.DatasourceURL, place.Name),
		})
	}
	return &DetailResult{Sources: DedupSources(refs)}, nil
}
