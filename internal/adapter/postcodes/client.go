// Package postcodes resolves UK postcodes to coordinates and administrative
// geography via the postcodes.io API.
package postcodes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/local-insights/internal/domain"
	"github.com/couchcryptid/local-insights/internal/observability"
)

// Client implements the geo resolver against postcodes.io.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a postcodes.io client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Resolve looks up a postcode and returns its geography. A single attempt,
// no retries: callers abort the whole request on failure because every panel
// needs the coordinates. Returns domain.ErrPostcodeNotFound when the
// upstream reports no match.
func (c *Client) Resolve(ctx context.Context, postcode string) (domain.GeoLocation, error) {
	compact := strings.ReplaceAll(strings.TrimSpace(postcode), " ", "")
	u := fmt.Sprintf("%s/postcodes/%s", c.baseURL, url.PathEscape(compact))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.GeoLocation{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeoLookups.WithLabelValues("error").Inc()
		return domain.GeoLocation{}, fmt.Errorf("postcode lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.GeoLookups.WithLabelValues("not_found").Inc()
		return domain.GeoLocation{}, domain.ErrPostcodeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.GeoLookups.WithLabelValues("error").Inc()
		return domain.GeoLocation{}, fmt.Errorf("postcodes.io: status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.metrics.GeoLookups.WithLabelValues("error").Inc()
		return domain.GeoLocation{}, fmt.Errorf("decode response: %w", err)
	}
	if body.Status != http.StatusOK || body.Result == nil {
		c.metrics.GeoLookups.WithLabelValues("not_found").Inc()
		return domain.GeoLocation{}, domain.ErrPostcodeNotFound
	}

	r := body.Result
	c.metrics.GeoLookups.WithLabelValues("ok").Inc()
	return domain.GeoLocation{
		Postcode:      r.Postcode,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		LSOA:          r.LSOA,
		MSOA:          r.MSOA,
		AdminDistrict: r.AdminDistrict,
		AdminWard:     r.AdminWard,
		Country:       r.Country,
	}, nil
}

// postcodes.io API response types.

type response struct {
	Status int     `json:"status"`
	Result *result `json:"result"`
}

type result struct {
	Postcode      string  `json:"postcode"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	LSOA          string  `json:"lsoa"`
	MSOA          string  `json:"msoa"`
	AdminDistrict string  `json:"admin_district"`
	AdminWard     string  `json:"admin_ward"`
	Country       string  `json:"country"`
}
