package domain

import (
	"encoding/json"
	"math"
)

// earthRadiusKm is the mean Earth radius used for all spherical calculations.
const earthRadiusKm = 6371.0

// Feature is a GeoJSON feature. Geometry coordinates are kept raw so
// arbitrary upstream geometries pass through to the map builder untouched.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Geometry   *Geometry      `json:"geometry,omitempty"`
}

// Geometry is a GeoJSON geometry with opaque coordinates.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// HaversineKm returns the great-circle distance in kilometres between two
// WGS-84 points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DestinationPoint returns the point reached by travelling distKm from
// (lat, lon) along the given bearing (radians, clockwise from north) on a
// spherical Earth. Planar offsets distort away from the equator; the
// spherical formula keeps generated shapes circular at any latitude.
func DestinationPoint(lat, lon, distKm, bearingRad float64) (destLat, destLon float64) {
	delta := distKm / earthRadiusKm
	phi1 := toRad(lat)
	lambda1 := toRad(lon)

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) +
		math.Cos(phi1)*math.Sin(delta)*math.Cos(bearingRad))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(bearingRad)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	return toDeg(phi2), toDeg(lambda2)
}

// CirclePolygon builds a closed GeoJSON polygon feature of steps evenly
// spaced vertices at radiusKm around (lat, lon). The ring carries steps+1
// points, the last repeating the first.
func CirclePolygon(lat, lon, radiusKm float64, steps int) Feature {
	ring := make([][]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		bearing := float64(i) / float64(steps) * 2 * math.Pi
		pLat, pLon := DestinationPoint(lat, lon, radiusKm, bearing)
		ring = append(ring, []float64{pLon, pLat})
	}

	coords, _ := json.Marshal([][][]float64{ring})
	return Feature{
		Type:       "Feature",
		Properties: map[string]any{"kind": "vicinity"},
		Geometry:   &Geometry{Type: "Polygon", Coordinates: coords},
	}
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }
