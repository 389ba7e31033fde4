// Package report aggregates every panel adapter's result for one query into
// a single Panel Set. The fan-out is fully concurrent and failure-isolated:
// one adapter's error or panic never cancels its siblings or the request.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/local-insights/internal/domain"
	"github.com/couchcryptid/local-insights/internal/observability"
)

// GeoResolver resolves a postcode to coordinates and geography codes.
type GeoResolver interface {
	Resolve(ctx context.Context, postcode string) (domain.GeoLocation, error)
}

// MapBuilder constructs the static map reference from the resolved point and
// any overlay polygons. Pure URL construction, no I/O.
type MapBuilder interface {
	URL(lat, lon float64, overlays []domain.Feature) string
}

// Service is the aggregation core behind GetInsights.
type Service struct {
	resolver GeoResolver
	registry *Registry
	maps     MapBuilder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewService creates the aggregation service.
func NewService(resolver GeoResolver, registry *Registry, maps MapBuilder, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		resolver: resolver,
		registry: registry,
		maps:     maps,
		logger:   logger,
		metrics:  metrics,
	}
}

// GetInsights resolves the postcode and assembles the full panel set.
// Failure modes: domain.ErrPostcodeRequired for an empty postcode,
// domain.ErrPostcodeNotFound when it does not resolve, a wrapped upstream
// error when the geocoder is unreachable. Degraded panels are data, never
// errors: the call succeeds even when every panel failed.
func (s *Service) GetInsights(ctx context.Context, postcode, number string) (domain.Insights, error) {
	if strings.TrimSpace(postcode) == "" {
		return domain.Insights{}, domain.ErrPostcodeRequired
	}

	geo, err := s.resolver.Resolve(ctx, postcode)
	if err != nil {
		return domain.Insights{}, fmt.Errorf("resolve %q: %w", postcode, err)
	}

	panels := s.BuildPanelSet(ctx, geo, postcode, number)
	s.metrics.ReportsBuilt.Inc()

	return domain.Insights{
		Postcode: postcode,
		Number:   number,
		Geo:      geo,
		Panels:   panels,
	}, nil
}

// BuildPanelSet invokes every registered adapter concurrently and collects
// all results regardless of individual outcomes. Total wall-clock time is
// bounded by the slowest adapter, plus the synchronous map-image step that
// must run after the flood-risk panel settles (it consumes its overlays).
func (s *Service) BuildPanelSet(ctx context.Context, geo domain.GeoLocation, postcode, number string) domain.PanelSet {
	q := Query{
		Postcode: postcode,
		Number:   number,
		Lat:      geo.Latitude,
		Lon:      geo.Longitude,
		LSOA:     geo.LSOA,
		MSOA:     geo.MSOA,
	}

	names := s.registry.Names()
	results := make([]any, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		fn, ok := s.registry.fetcher(name)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, name string, fn FetchFunc) {
			defer wg.Done()
			results[i] = s.fetchPanel(ctx, name, fn, q)
		}(i, name, fn)
	}
	wg.Wait()

	panels := make(domain.PanelSet, len(names)+1)
	for i, name := range names {
		panels[name] = results[i]
	}

	// The map panel depends on the settled flood-risk overlays, so it is
	// assembled here rather than registered as a concurrent fetch.
	var overlays []domain.Feature
	if base, ok := panels[domain.PanelFloodBase].(*domain.BaselineFloodRisk); ok && base != nil {
		overlays = base.Overlays
	}
	if url := s.maps.URL(geo.Latitude, geo.Longitude, overlays); url != "" {
		panels[domain.PanelMapImage] = url
	} else {
		panels[domain.PanelMapImage] = nil
	}

	return panels
}

// fetchPanel runs one adapter, converting errors and panics into the
// error-marker panel shape.
func (s *Service) fetchPanel(ctx context.Context, name string, fn FetchFunc, q Query) (result any) {
	start := time.Now()
	defer func() {
		s.metrics.PanelDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			s.logger.Error("panel fetch panicked", "panel", name, "panic", r)
			s.metrics.PanelFetches.WithLabelValues(name, "error").Inc()
			result = &domain.ErrorMarker{Error: true, Message: fmt.Sprintf("internal: %v", r)}
		}
	}()

	value, err := fn(ctx, q)
	if err != nil {
		s.logger.Warn("panel fetch failed", "panel", name, "postcode", q.Postcode, "error", err)
		s.metrics.PanelFetches.WithLabelValues(name, "error").Inc()
		return &domain.ErrorMarker{Error: true, Message: err.Error()}
	}

	s.metrics.PanelFetches.WithLabelValues(name, "ok").Inc()
	return value
}
