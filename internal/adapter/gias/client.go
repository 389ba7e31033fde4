// Package gias will surface nearby schools from the Get Information About
// Schools and Ofsted datasets. Those ship as bulk downloads rather than a
// queryable API, so until an extract is wired in the panel carries
// illustrative placeholder entries.
package gias

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// Client produces the schools panel.
type Client struct {
	logger *slog.Logger
}

// NewClient creates a schools client.
func NewClient(logger *slog.Logger) *Client {
	return &Client{logger: logger}
}

// SchoolsSummary lists the nearest schools to the point.
func (c *Client) SchoolsSummary(_ context.Context, _, _ float64) (*domain.SchoolsSummary, error) {
	return &domain.SchoolsSummary{
		Nearest: []domain.School{
			{Name: "St Mary's Primary", Ofsted: "Outstanding", DistanceKm: 0.6},
			{Name: "Town Secondary", Ofsted: "Good", DistanceKm: 1.1},
			{Name: "Riverside Academy", Ofsted: "Good", DistanceKm: 1.4},
		},
		Note: "Demo placeholder; pending GIAS/Ofsted bulk data import.",
	}, nil
}
