package postcodes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/local-insights/internal/domain"
	"github.com/couchcryptid/local-insights/internal/observability"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestResolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The client strips spaces before building the path.
		assert.Equal(t, "/postcodes/SW1A1AA", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": 200,
			"result": {
				"postcode": "SW1A 1AA",
				"latitude": 51.501009,
				"longitude": -0.141588,
				"lsoa": "Westminster 018C",
				"msoa": "Westminster 018",
				"admin_district": "Westminster",
				"admin_ward": "St James's",
				"country": "England"
			}
		}`))
	}))
	defer srv.Close()

	geo, err := testClient(srv.URL).Resolve(context.Background(), "SW1A 1AA")
	require.NoError(t, err)

	assert.Equal(t, "SW1A 1AA", geo.Postcode)
	assert.Equal(t, 51.501009, geo.Latitude)
	assert.Equal(t, -0.141588, geo.Longitude)
	assert.Equal(t, "Westminster 018C", geo.LSOA)
	assert.Equal(t, "Westminster 018", geo.MSOA)
	assert.Equal(t, "Westminster", geo.AdminDistrict)
	assert.Equal(t, "England", geo.Country)
}

func TestResolve_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status": 404, "error": "Postcode not found"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "ZZ99 9ZZ")
	assert.ErrorIs(t, err, domain.ErrPostcodeNotFound)
}

func TestResolve_NullResultTreatedAsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": 200, "result": null}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "ZZ99 9ZZ")
	assert.ErrorIs(t, err, domain.ErrPostcodeNotFound)
}

func TestResolve_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "SW1A 1AA")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPostcodeNotFound)
}
