// Package openaq fetches air quality measurements from the OpenAQ API.
package openaq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/local-insights/internal/domain"
)

const (
	searchRadiusM = 25000
	siteLimit     = 5
)

// Client fetches the latest measurements from monitoring sites near a point.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OpenAQ client. No API key is required.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// AirQuality returns the nearest PM2.5 and NO2 readings within range. Either
// may be nil when no nearby site measures that pollutant.
func (c *Client) AirQuality(ctx context.Context, lat, lon float64) (*domain.AirQuality, error) {
	u := fmt.Sprintf("%s/v2/latest?coordinates=%f,%f&radius=%d&limit=%d",
		c.baseURL, lat, lon, searchRadiusM, siteLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("air quality request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openaq: status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &domain.AirQuality{
		PM25:   pickParameter(body.Results, "pm25"),
		NO2:    pickParameter(body.Results, "no2"),
		Source: fmt.Sprintf("OpenAQ (nearest sites within %dkm)", searchRadiusM/1000),
	}, nil
}

// pickParameter returns the first site's reading for the parameter, scanning
// sites in upstream (nearest-first) order.
func pickParameter(results []siteResult, parameter string) *domain.AirMeasurement {
	for _, r := range results {
		for _, m := range r.Measurements {
			if m.Parameter == parameter {
				return &domain.AirMeasurement{
					Value:       m.Value,
					Unit:        m.Unit,
					LastUpdated: m.LastUpdated,
				}
			}
		}
	}
	return nil
}

// OpenAQ API response types.

type response struct {
	Results []siteResult `json:"results"`
}

type siteResult struct {
	Measurements []measurement `json:"measurements"`
}

type measurement struct {
	Parameter   string  `json:"parameter"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	LastUpdated string  `json:"lastUpdated"`
}
