// Package police summarises street-level crime from the data.police.uk API.
package police

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// topCategoryCount limits the summary to the five most frequent categories.
const topCategoryCount = 5

// Client fetches street-level crime data.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewClient creates a data.police.uk client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		clock:      clockwork.NewRealClock(),
		logger:     logger,
	}
}

// RecentSummary counts crimes within roughly one mile of the point for the
// last complete month, broken down by category.
func (c *Client) RecentSummary(ctx context.Context, lat, lon float64) (*domain.CrimeSummary, error) {
	month := c.clock.Now().UTC().AddDate(0, -1, 0).Format("2006-01")
	crimes, err := c.fetchMonth(ctx, lat, lon, month)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]int{}
	for _, cr := range crimes {
		byCategory[cr.Category]++
	}

	top := make([]domain.CategoryCount, 0, len(byCategory))
	for cat, n := range byCategory {
		top = append(top, domain.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Category < top[j].Category
	})
	if len(top) > topCategoryCount {
		top = top[:topCategoryCount]
	}

	return &domain.CrimeSummary{
		Month:         month,
		Total:         len(crimes),
		TopCategories: top,
	}, nil
}

// YearSeries returns per-month crime totals for the twelve most recent
// complete months, oldest first. Months the upstream has not yet published
// are reported as zero.
func (c *Client) YearSeries(ctx context.Context, lat, lon float64) (*domain.CrimeYearSeries, error) {
	now := c.clock.Now().UTC()
	months := make([]domain.MonthCount, 0, 12)
	var lastErr error
	failures := 0

	for i := 12; i >= 1; i-- {
		month := now.AddDate(0, -i, 0).Format("2006-01")
		crimes, err := c.fetchMonth(ctx, lat, lon, month)
		if err != nil {
			failures++
			lastErr = err
			months = append(months, domain.MonthCount{Month: month})
			continue
		}
		months = append(months, domain.MonthCount{Month: month, Total: len(crimes)})
	}

	// Only fail the panel when no month came back at all; the upstream lags
	// by a month or two and partial series are still worth rendering.
	if failures == len(months) && lastErr != nil {
		return nil, fmt.Errorf("crime year series: %w", lastErr)
	}
	return &domain.CrimeYearSeries{Months: months}, nil
}

func (c *Client) fetchMonth(ctx context.Context, lat, lon float64, month string) ([]crime, error) {
	u := fmt.Sprintf("%s/crimes-street/all-crime?lat=%f&lng=%f&date=%s", c.baseURL, lat, lon, month)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crime request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data.police.uk: status %d for %s", resp.StatusCode, month)
	}

	var crimes []crime
	if err := json.NewDecoder(resp.Body).Decode(&crimes); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return crimes, nil
}

type crime struct {
	Category string `json:"category"`
}
