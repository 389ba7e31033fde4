package domain

import (
	"fmt"
	"strings"
)

// Fallback vicinity circle parameters: a 400 m ring of 48 segments around
// the query point, drawn when no flood-risk layer is available.
const (
	VicinityRadiusKm = 0.4
	VicinitySteps    = 48
)

// riskProperties are the feature property names scanned for risk text, in
// the order upstream layers have used them.
var riskProperties = []string{"risk", "RISK", "prob_4band"}

// ClassifyFloodRisk scans the returned features' risk text and derives an
// overall level. Precedence is deliberate and asymmetric: the first High
// (or "zone 3") match wins immediately; Medium only replaces Unknown; Low
// only replaces Unknown. In particular a Low match after a Medium one does
// not demote the level.
func ClassifyFloodRisk(features []Feature) string {
	level := RiskUnknown
	for _, f := range features {
		risk := riskText(f.Properties)
		switch {
		case strings.Contains(risk, "high") || strings.Contains(risk, "zone 3"):
			return RiskHigh
		case strings.Contains(risk, "medium") || strings.Contains(risk, "zone 2"):
			if level == RiskUnknown {
				level = RiskMedium
			}
		case strings.Contains(risk, "low"):
			if level == RiskUnknown {
				level = RiskLow
			}
		}
	}
	return level
}

func riskText(props map[string]any) string {
	for _, key := range riskProperties {
		if v, ok := props[key]; ok && v != nil {
			return strings.ToLower(fmt.Sprintf("%v", v))
		}
	}
	return ""
}

// FallbackFloodRisk builds the degraded panel used when the risk layer is
// unconfigured or unreachable: Unknown level plus one vicinity circle so the
// report map still has an overlay to draw.
func FallbackFloodRisk(lat, lon float64, note string) *BaselineFloodRisk {
	return &BaselineFloodRisk{
		Level:    RiskUnknown,
		Overlays: []Feature{CirclePolygon(lat, lon, VicinityRadiusKm, VicinitySteps)},
		Note:     note,
	}
}
