package domain

import (
	"math"

	"github.com/montanaflynn/stats"
)

// IncomePoint is one small-area centroid from the local income dataset.
type IncomePoint struct {
	Area       string  // MSOA code
	Lat        float64
	Lon        float64
	Income     float64 // median annual household income, GBP
	Households float64 // 0 when the dataset carries no household counts
}

// WidenFactor is applied once to the search radius when no centroid falls
// within the requested one (5 km → 7.5 km) before reporting unavailable.
const WidenFactor = 1.5

// EstimateIncome averages household income over centroids within radiusKm of
// the query point. When every matched point carries a household count the
// mean is household-weighted; otherwise it is unweighted. If nothing matches
// the radius is widened once by WidenFactor.
func EstimateIncome(points []IncomePoint, lat, lon, radiusKm float64) IncomeEstimate {
	matched := withinRadius(points, lat, lon, radiusKm)
	usedRadius := radiusKm
	if len(matched) == 0 {
		usedRadius = radiusKm * WidenFactor
		matched = withinRadius(points, lat, lon, usedRadius)
	}
	if len(matched) == 0 {
		return IncomeEstimate{Available: false, Note: "No small-area centroids within range. Check dataset coverage."}
	}

	weighted := true
	for _, p := range matched {
		if p.Households <= 0 {
			weighted = false
			break
		}
	}

	var avg float64
	if weighted {
		var sum, totalWeight float64
		for _, p := range matched {
			sum += p.Income * p.Households
			totalWeight += p.Households
		}
		avg = sum / totalWeight
	} else {
		incomes := make([]float64, len(matched))
		for i, p := range matched {
			incomes[i] = p.Income
		}
		avg, _ = stats.Mean(incomes)
	}

	return IncomeEstimate{
		Available:     true,
		RadiusKm:      usedRadius,
		AverageIncome: int(math.Round(avg)),
		PointsUsed:    len(matched),
		Weighted:      weighted,
		Source:        "ONS small area income estimates",
	}
}

func withinRadius(points []IncomePoint, lat, lon, radiusKm float64) []IncomePoint {
	var matched []IncomePoint
	for _, p := range points {
		if HaversineKm(lat, lon, p.Lat, p.Lon) <= radiusKm {
			matched = append(matched, p)
		}
	}
	return matched
}
