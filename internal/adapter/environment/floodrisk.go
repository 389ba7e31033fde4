package environment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// BaselineFloodRisk queries the long-term flood-risk layer for polygons
// intersecting the point and classifies the overall level. This panel never
// reports an error marker: when the layer is unconfigured or the query
// fails, it degrades to an Unknown level with a synthetic vicinity circle so
// the report map still has an overlay.
func (c *Client) BaselineFloodRisk(ctx context.Context, lat, lon float64) *domain.BaselineFloodRisk {
	if c.floodRiskURL == "" {
		return domain.FallbackFloodRisk(lat, lon, "EA flood risk layer not configured; showing vicinity circle.")
	}

	params := url.Values{
		"f":              {"geojson"},
		"geometry":       {fmt.Sprintf("%f,%f", lon, lat)},
		"geometryType":   {"esriGeometryPoint"},
		"inSR":           {"4326"},
		"spatialRel":     {"esriSpatialRelIntersects"},
		"outFields":      {"*"},
		"returnGeometry": {"true"},
	}

	var fc domain.FeatureCollection
	if err := c.getJSON(ctx, c.floodRiskURL+"?"+params.Encode(), &fc); err != nil {
		c.logger.Warn("flood risk layer query failed", "error", err)
		return domain.FallbackFloodRisk(lat, lon, "EA flood risk layer unavailable; showing vicinity circle.")
	}

	return &domain.BaselineFloodRisk{
		Level:    domain.ClassifyFloodRisk(fc.Features),
		Overlays: fc.Features,
	}
}
