package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream HTTP behavior.
	UpstreamTimeout time.Duration
	CacheTTL        time.Duration

	// Upstream base URLs, overridable for tests and proxies.
	PostcodesBaseURL string
	PoliceBaseURL    string
	EABaseURL        string
	OpenAQBaseURL    string
	ORSBaseURL       string
	EPCBaseURL       string
	FloodRiskURL     string // ArcGIS feature-query endpoint; empty disables the live layer

	// Credentials. Each gates its adapter: absent means placeholder data.
	OfcomAPIKey string
	ORSAPIKey   string
	MapboxToken string

	// EPC accepts several credential shapes; see adapter/epc.
	EPCAuthBasic string // already base64-encoded "email:key"
	EPCAPIToken  string // raw "email:key"
	EPCEmail     string
	EPCAPIKey    string

	// Local reference data.
	IncomeDataPath string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		UpstreamTimeout: upstreamTimeout,
		CacheTTL:        cacheTTL,

		PostcodesBaseURL: envOrDefault("POSTCODES_BASE_URL", "https://api.postcodes.io"),
		PoliceBaseURL:    envOrDefault("POLICE_BASE_URL", "https://data.police.uk/api"),
		EABaseURL:        envOrDefault("EA_BASE_URL", "https://environment.data.gov.uk"),
		OpenAQBaseURL:    envOrDefault("OPENAQ_BASE_URL", "https://api.openaq.org"),
		ORSBaseURL:       envOrDefault("ORS_BASE_URL", "https://api.openrouteservice.org"),
		EPCBaseURL:       envOrDefault("EPC_BASE_URL", "https://epc.opendatacommunities.org"),
		FloodRiskURL:     os.Getenv("EA_FLOOD_WFS_URL"),

		OfcomAPIKey: os.Getenv("OFCOM_API_KEY"),
		ORSAPIKey:   os.Getenv("ORS_API_KEY"),
		MapboxToken: os.Getenv("MAPBOX_TOKEN"),

		EPCAuthBasic: os.Getenv("EPC_AUTH_BASIC"),
		EPCAPIToken:  os.Getenv("EPC_API_TOKEN"),
		EPCEmail:     os.Getenv("EPC_EMAIL"),
		EPCAPIKey:    os.Getenv("EPC_API_KEY"),

		IncomeDataPath: envOrDefault("INCOME_DATA_PATH", "data/msoa_income.csv"),
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.PostcodesBaseURL == "" {
		return nil, errors.New("POSTCODES_BASE_URL is required")
	}
	if cfg.EPCEmail != "" && cfg.EPCAPIKey == "" {
		return nil, errors.New("EPC_EMAIL is set but EPC_API_KEY is not")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}
