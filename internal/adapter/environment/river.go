package environment

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// stationSearchKm bounds the nearest-station search.
const stationSearchKm = 20

type station struct {
	Label    label     `json:"label"`
	Measures []measure `json:"measures"`
}

type measure struct {
	ID        string `json:"@id"`
	Parameter string `json:"parameter"`
	Label     label  `json:"label"`
	UnitName  string `json:"unitName"`
}

type reading struct {
	DateTime string  `json:"dateTime"`
	Value    float64 `json:"value"`
}

// RiverTrend finds the nearest river monitoring station and summarises its
// level readings over the last seven days.
func (c *Client) RiverTrend(ctx context.Context, lat, lon float64) (*domain.RiverTrend, error) {
	st, m, err := c.nearestLevelMeasure(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("river trend: %w", err)
	}
	if st == nil {
		return &domain.RiverTrend{Available: false, Note: "No monitoring stations nearby"}, nil
	}

	readings, err := c.readingsSince(ctx, m.ID, c.clock.Now().Add(-7*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("river trend: %w", err)
	}
	if len(readings) == 0 {
		return &domain.RiverTrend{Available: false, Note: "No recent readings"}, nil
	}

	first := readings[0].Value
	last := readings[len(readings)-1].Value
	return &domain.RiverTrend{
		Available: true,
		Station:   string(st.Label),
		Unit:      unitOrDefault(m.UnitName),
		First:     first,
		Last:      last,
		Change:    last - first,
		Count:     len(readings),
	}, nil
}

// RiverYear aggregates the nearest station's level readings into monthly
// means over the past year, oldest month first.
func (c *Client) RiverYear(ctx context.Context, lat, lon float64) (*domain.RiverYear, error) {
	st, m, err := c.nearestLevelMeasure(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("river year: %w", err)
	}
	if st == nil {
		return &domain.RiverYear{Available: false, Note: "No monitoring stations nearby"}, nil
	}

	readings, err := c.readingsSince(ctx, m.ID, c.clock.Now().AddDate(-1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("river year: %w", err)
	}
	if len(readings) == 0 {
		return &domain.RiverYear{Available: false, Note: "No readings in the past year"}, nil
	}

	byMonth := map[string][]float64{}
	for _, r := range readings {
		if len(r.DateTime) < 7 {
			continue
		}
		month := r.DateTime[:7]
		byMonth[month] = append(byMonth[month], r.Value)
	}

	months := make([]domain.MonthLevel, 0, len(byMonth))
	for month, values := range byMonth {
		mean, _ := stats.Mean(values)
		months = append(months, domain.MonthLevel{Month: month, Mean: mean})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	return &domain.RiverYear{
		Available: true,
		Station:   string(st.Label),
		Unit:      unitOrDefault(m.UnitName),
		Months:    months,
	}, nil
}

// nearestLevelMeasure returns the closest station carrying measures and its
// preferred level/stage measure. A nil station means none were found.
func (c *Client) nearestLevelMeasure(ctx context.Context, lat, lon float64) (*station, *measure, error) {
	u := fmt.Sprintf("%s/flood-monitoring/id/stations?lat=%f&long=%f&dist=%d",
		c.baseURL, lat, lon, stationSearchKm)

	var body struct {
		Items []station `json:"items"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, nil, err
	}

	for i := range body.Items {
		st := &body.Items[i]
		if len(st.Measures) == 0 {
			continue
		}
		for j := range st.Measures {
			m := &st.Measures[j]
			text := strings.ToLower(m.Parameter + " " + string(m.Label))
			if strings.Contains(text, "level") || strings.Contains(text, "stage") {
				return st, m, nil
			}
		}
		return st, &st.Measures[0], nil
	}
	return nil, nil, nil
}

// readingsSince fetches a measure's readings from since onward, ordered
// chronologically.
func (c *Client) readingsSince(ctx context.Context, measureID string, since time.Time) ([]reading, error) {
	u := fmt.Sprintf("%s/readings?since=%s&_limit=10000",
		measureID, url.QueryEscape(since.UTC().Format(time.RFC3339)))

	var body struct {
		Items []reading `json:"items"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	readings := body.Items
	sort.Slice(readings, func(i, j int) bool { return readings[i].DateTime < readings[j].DateTime })
	return readings, nil
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "m"
	}
	return unit
}
