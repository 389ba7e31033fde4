package environment

import (
	"context"
	"fmt"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// FloodSnapshot counts currently active EA flood alerts and warnings.
// The feed is national; per-area polygons come from the baseline risk layer.
func (c *Client) FloodSnapshot(ctx context.Context) (*domain.FloodSnapshot, error) {
	var body struct {
		Items []struct {
			Severity string `json:"severity"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/flood-monitoring/id/floods", &body); err != nil {
		return nil, fmt.Errorf("flood snapshot: %w", err)
	}

	return &domain.FloodSnapshot{
		ActiveWarnings: len(body.Items),
		Note:           "Active EA alerts and warnings nationally.",
	}, nil
}
