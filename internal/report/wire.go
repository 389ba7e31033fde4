package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/local-insights/internal/adapter/environment"
	"github.com/couchcryptid/local-insights/internal/adapter/epc"
	"github.com/couchcryptid/local-insights/internal/adapter/gias"
	"github.com/couchcryptid/local-insights/internal/adapter/income"
	"github.com/couchcryptid/local-insights/internal/adapter/ofcom"
	"github.com/couchcryptid/local-insights/internal/adapter/openaq"
	"github.com/couchcryptid/local-insights/internal/adapter/ors"
	"github.com/couchcryptid/local-insights/internal/adapter/police"
	"github.com/couchcryptid/local-insights/internal/cache"
	"github.com/couchcryptid/local-insights/internal/config"
	"github.com/couchcryptid/local-insights/internal/domain"
)

// DefaultRegistry builds the production capability table: every panel
// adapter, each memoized in the shared result cache so repeated queries for
// the same point inside the TTL window skip the upstream call.
func DefaultRegistry(cfg *config.Config, results *cache.Cache, logger *slog.Logger) *Registry {
	crime := police.NewClient(cfg.PoliceBaseURL, cfg.UpstreamTimeout, logger)
	ea := environment.NewClient(cfg.EABaseURL, cfg.FloodRiskURL, cfg.UpstreamTimeout, logger)
	air := openaq.NewClient(cfg.OpenAQBaseURL, cfg.UpstreamTimeout, logger)
	coverage := ofcom.NewClient(cfg.OfcomAPIKey, cfg.UpstreamTimeout, logger)
	certs := epc.NewClient(cfg.EPCBaseURL, epc.Credentials{
		AuthBasic: cfg.EPCAuthBasic,
		APIToken:  cfg.EPCAPIToken,
		Email:     cfg.EPCEmail,
		APIKey:    cfg.EPCAPIKey,
	}, cfg.UpstreamTimeout, logger)
	schools := gias.NewClient(logger)
	isochrones := ors.NewClient(cfg.ORSBaseURL, cfg.ORSAPIKey, cfg.UpstreamTimeout, logger)
	incomes := income.NewSource(cfg.IncomeDataPath, logger)

	ttl := cfg.CacheTTL
	reg := NewRegistry()

	register(reg, results, ttl, domain.PanelCrime, func(ctx context.Context, q Query) (any, error) {
		return crime.RecentSummary(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelCrimeYear, func(ctx context.Context, q Query) (any, error) {
		return crime.YearSeries(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelFlood, func(ctx context.Context, _ Query) (any, error) {
		return ea.FloodSnapshot(ctx)
	})
	register(reg, results, ttl, domain.PanelBroadband, func(ctx context.Context, q Query) (any, error) {
		return coverage.BroadbandSnapshot(ctx, q.Postcode)
	})
	register(reg, results, ttl, domain.PanelMobile, func(ctx context.Context, q Query) (any, error) {
		return coverage.MobileSnapshot(ctx, q.Postcode)
	})
	register(reg, results, ttl, domain.PanelEPC, func(ctx context.Context, q Query) (any, error) {
		return certs.Summary(ctx, q.Postcode, q.Number)
	})
	register(reg, results, ttl, domain.PanelSchools, func(ctx context.Context, q Query) (any, error) {
		return schools.SchoolsSummary(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelIso, func(ctx context.Context, q Query) (any, error) {
		return isochrones.Summary(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelAir, func(ctx context.Context, q Query) (any, error) {
		return air.AirQuality(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelRiver, func(ctx context.Context, q Query) (any, error) {
		return ea.RiverTrend(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelRiverYear, func(ctx context.Context, q Query) (any, error) {
		return ea.RiverYear(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelIncome, func(ctx context.Context, q Query) (any, error) {
		return incomes.Estimate(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelFloodBase, func(ctx context.Context, q Query) (any, error) {
		return ea.BaselineFloodRisk(ctx, q.Lat, q.Lon), nil
	})
	register(reg, results, ttl, domain.PanelBathing, func(ctx context.Context, q Query) (any, error) {
		return ea.BathingWater(ctx, q.Lat, q.Lon)
	})
	register(reg, results, ttl, domain.PanelCatchment, func(ctx context.Context, q Query) (any, error) {
		return ea.CatchmentStatus(ctx, q.Lat, q.Lon)
	})

	return reg
}

// register wraps fn in the result cache under the panel's name and adds it
// to the registry.
func register(reg *Registry, results *cache.Cache, ttl time.Duration, name string, fn FetchFunc) {
	reg.Register(name, cache.Wrap(results, name, ttl, fn))
}
