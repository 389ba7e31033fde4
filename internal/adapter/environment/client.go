// Package environment talks to the Environment Agency's open data APIs:
// flood monitoring (warnings, river level stations and readings), bathing
// waters, catchment planning, and the optional baseline flood-risk layer.
package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

// Client fetches Environment Agency data.
type Client struct {
	httpClient *http.Client
	baseURL    string
	// floodRiskURL is an ArcGIS feature-query endpoint for the long-term
	// flood-risk layer. Empty means the layer is not configured.
	floodRiskURL string
	clock        clockwork.Clock
	logger       *slog.Logger
}

// NewClient creates an Environment Agency client.
func NewClient(baseURL, floodRiskURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		floodRiskURL: floodRiskURL,
		clock:        clockwork.NewRealClock(),
		logger:       logger,
	}
}

// getJSON fetches u and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("environment agency request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("environment agency: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// label tolerates the two shapes EA linked-data endpoints use for text
// fields: a plain string or an object carrying "_value".
type label string

func (l *label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = label(s)
		return nil
	}
	var obj struct {
		Value string `json:"_value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = label(obj.Value)
	return nil
}
