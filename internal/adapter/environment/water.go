package environment

import (
	"context"
	"fmt"
	"math"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// bathingSearchKm bounds the nearest bathing water search.
const bathingSearchKm = 30

// BathingWater finds the nearest designated bathing water and its latest
// classification. Distance is approximate (site centroid to query point).
func (c *Client) BathingWater(ctx context.Context, lat, lon float64) (*domain.BathingWater, error) {
	u := fmt.Sprintf("%s/bathing-water/id/bathing-water?lat=%f&long=%f&dist=%d",
		c.baseURL, lat, lon, bathingSearchKm)

	var body struct {
		Items []struct {
			ID        string   `json:"@id"`
			Label     label    `json:"label"`
			Name      label    `json:"name"`
			Lat       *float64 `json:"lat"`
			Latitude  *float64 `json:"latitude"`
			Long      *float64 `json:"long"`
			Longitude *float64 `json:"longitude"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("bathing water: %w", err)
	}
	if len(body.Items) == 0 {
		return &domain.BathingWater{
			Available: false,
			Note:      fmt.Sprintf("No bathing waters within %dkm", bathingSearchKm),
		}, nil
	}

	site := body.Items[0]
	name := string(site.Label)
	if name == "" {
		name = string(site.Name)
	}

	// The classification lives behind a second request; a miss there still
	// leaves a useful panel.
	classification := "Unknown"
	var classBody struct {
		Items []struct {
			Classification label `json:"classification"`
		} `json:"items"`
	}
	if site.ID != "" {
		if err := c.getJSON(ctx, site.ID+"/latest-classification", &classBody); err == nil &&
			len(classBody.Items) > 0 && classBody.Items[0].Classification != "" {
			classification = string(classBody.Items[0].Classification)
		}
	}

	bw := &domain.BathingWater{
		Available:      true,
		Name:           name,
		Classification: classification,
	}
	if siteLat, siteLon, ok := coords(site.Lat, site.Latitude, site.Long, site.Longitude); ok {
		d := math.Round(domain.HaversineKm(lat, lon, siteLat, siteLon)*10) / 10
		bw.DistanceKm = &d
	}
	return bw, nil
}

// CatchmentStatus reports the nearest water body's overall classification
// from the Catchment Data Explorer.
func (c *Client) CatchmentStatus(ctx context.Context, lat, lon float64) (*domain.CatchmentStatus, error) {
	u := fmt.Sprintf("%s/catchment-planning/WaterBody/nearest?lat=%f&lng=%f", c.baseURL, lat, lon)

	var body struct {
		Items       []waterBody `json:"items"`
		WaterBodies []waterBody `json:"waterBodies"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("catchment status: %w", err)
	}

	items := body.Items
	if len(items) == 0 {
		items = body.WaterBodies
	}
	if len(items) == 0 {
		return &domain.CatchmentStatus{Available: false, Note: "No water body nearby"}, nil
	}

	wb := items[0]
	name := first(string(wb.Name), string(wb.ShortName), "Water body")
	status := first(string(wb.OverallStatus), string(wb.Classification), "Unknown")
	cycle := first(wb.ClassificationCycle, wb.Cycle, "")

	return &domain.CatchmentStatus{
		Available: true,
		Name:      name,
		Status:    status,
		Cycle:     cycle,
	}, nil
}

type waterBody struct {
	Name                label  `json:"name"`
	ShortName           label  `json:"shortName"`
	OverallStatus       label  `json:"overallStatus"`
	Classification      label  `json:"classification"`
	ClassificationCycle string `json:"classificationCycle"`
	Cycle               string `json:"cycle"`
}

func coords(latA, latB, lonA, lonB *float64) (lat, lon float64, ok bool) {
	switch {
	case latA != nil && lonA != nil:
		return *latA, *lonA, true
	case latB != nil && lonB != nil:
		return *latB, *lonB, true
	default:
		return 0, 0, false
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
