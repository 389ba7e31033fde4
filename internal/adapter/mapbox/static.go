// Package mapbox builds Mapbox Static Images URLs for report maps.
package mapbox

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/couchcryptid/local-insights/internal/domain"
)

const (
	style       = "light-v11"
	zoom        = 14
	width       = 800
	height      = 500
	markerColor = "285A98"

	// Mapbox rejects request URLs beyond ~8KiB; overlays that encode larger
	// than this are dropped in favour of the bare marker.
	maxOverlayChars = 6000
)

// Builder constructs static map URLs. An empty token disables map imagery.
type Builder struct {
	token   string
	baseURL string
}

// NewBuilder creates a static map URL builder.
func NewBuilder(token string) *Builder {
	return &Builder{
		token:   token,
		baseURL: "https://api.mapbox.com/styles/v1/mapbox",
	}
}

// URL returns a static map URL centred on the point with a marker and,
// when they fit, the given GeoJSON overlays (flood-risk polygons or the
// fallback vicinity circle). Returns "" when no token is configured.
// This is pure URL construction: no network call happens here.
func (b *Builder) URL(lat, lon float64, overlays []domain.Feature) string {
	if b.token == "" {
		return ""
	}

	path := fmt.Sprintf("pin-s+%s(%f,%f)", markerColor, lon, lat)
	if overlay := encodeOverlays(overlays); overlay != "" {
		path += "," + overlay
	}

	return fmt.Sprintf("%s/%s/static/%s/%f,%f,%d/%dx%d@2x?access_token=%s",
		b.baseURL, style, path, lon, lat, zoom, width, height, url.QueryEscape(b.token))
}

func encodeOverlays(overlays []domain.Feature) string {
	if len(overlays) == 0 {
		return ""
	}
	fc := domain.FeatureCollection{Type: "FeatureCollection", Features: overlays}
	raw, err := json.Marshal(fc)
	if err != nil {
		return ""
	}
	encoded := url.PathEscape(string(raw))
	if len(encoded) > maxOverlayChars {
		return ""
	}
	return "geojson(" + encoded + ")"
}
