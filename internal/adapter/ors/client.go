// Package ors probes travel-time isochrone availability via the
// openrouteservice API.
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// isochroneSpec is one travel-time band to probe.
type isochroneSpec struct {
	profile string
	rangeS  int
	label   string
}

// The report shows a 15-minute walk and a 30-minute drive band.
var specs = []isochroneSpec{
	{profile: "foot-walking", rangeS: 900, label: "walk_15"},
	{profile: "driving-car", rangeS: 1800, label: "drive_30"},
}

// Client probes openrouteservice isochrones.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an openrouteservice client. An empty apiKey disables
// the probe.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Summary probes each configured travel-time band. Individual band failures
// are reported per item, not as a panel failure.
func (c *Client) Summary(ctx context.Context, lat, lon float64) (*domain.IsochroneAvailability, error) {
	if c.apiKey == "" {
		return &domain.IsochroneAvailability{Available: false, Note: "No ORS_API_KEY provided"}, nil
	}

	out := &domain.IsochroneAvailability{Available: true}
	for _, spec := range specs {
		ok, err := c.probe(ctx, spec, lat, lon)
		item := domain.IsochroneItem{Label: spec.label, OK: ok}
		if err != nil {
			item.Error = err.Error()
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (c *Client) probe(ctx context.Context, spec isochroneSpec, lat, lon float64) (bool, error) {
	payload, err := json.Marshal(map[string]any{
		"locations": [][]float64{{lon, lat}},
		"range":     []int{spec.rangeS},
	})
	if err != nil {
		return false, fmt.Errorf("encode request: %w", err)
	}

	u := fmt.Sprintf("%s/v2/isochrones/%s", c.baseURL, spec.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("isochrone request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("openrouteservice: status %d", resp.StatusCode)
	}

	var body struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return len(body.Features) > 0, nil
}
