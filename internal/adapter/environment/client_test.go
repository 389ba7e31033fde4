package environment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/local-insights/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL, floodRiskURL string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 5 * time.Second},
		baseURL:      baseURL,
		floodRiskURL: floodRiskURL,
		clock:        clockwork.NewFakeClockAt(time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)),
		logger:       discardLogger(),
	}
}

// riverServer serves a single station whose level measure points back at the
// same server for readings.
func riverServer(t *testing.T, readingsJSON string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/flood-monitoring/id/stations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("dist"))
		fmt.Fprintf(w, `{"items": [
			{"label": "Thames at Kingston", "measures": [
				{"@id": "%s/measures/flow-1", "parameter": "flow", "label": "Flow", "unitName": "m3/s"},
				{"@id": "%s/measures/level-1", "parameter": "level", "label": "Water Level", "unitName": "mASD"}
			]}
		]}`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/measures/level-1/readings", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("since"))
		w.Write([]byte(readingsJSON))
	})
	srv = httptest.NewServer(mux)
	return srv
}

func TestRiverTrend_SevenDaySummary(t *testing.T) {
	srv := riverServer(t, `{"items": [
		{"dateTime": "2026-08-14T00:00:00Z", "value": 1.4},
		{"dateTime": "2026-08-10T00:00:00Z", "value": 1.2},
		{"dateTime": "2026-08-12T00:00:00Z", "value": 1.1}
	]}`)
	defer srv.Close()

	trend, err := testClient(srv.URL, "").RiverTrend(context.Background(), 51.4, -0.3)
	require.NoError(t, err)

	require.True(t, trend.Available)
	assert.Equal(t, "Thames at Kingston", trend.Station)
	assert.Equal(t, "mASD", trend.Unit, "prefers the level measure over the flow measure")
	// Readings arrive unordered; the summary sorts them first.
	assert.Equal(t, 1.2, trend.First)
	assert.Equal(t, 1.4, trend.Last)
	assert.InDelta(t, 0.2, trend.Change, 1e-9)
	assert.Equal(t, 3, trend.Count)
}

func TestRiverTrend_NoStations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	trend, err := testClient(srv.URL, "").RiverTrend(context.Background(), 51.4, -0.3)
	require.NoError(t, err)
	assert.False(t, trend.Available)
	assert.NotEmpty(t, trend.Note)
}

func TestRiverYear_MonthlyMeans(t *testing.T) {
	srv := riverServer(t, `{"items": [
		{"dateTime": "2026-07-01T00:00:00Z", "value": 2.0},
		{"dateTime": "2026-07-15T00:00:00Z", "value": 4.0},
		{"dateTime": "2026-06-01T00:00:00Z", "value": 1.0}
	]}`)
	defer srv.Close()

	year, err := testClient(srv.URL, "").RiverYear(context.Background(), 51.4, -0.3)
	require.NoError(t, err)

	require.True(t, year.Available)
	require.Len(t, year.Months, 2)
	assert.Equal(t, "2026-06", year.Months[0].Month, "months come oldest first")
	assert.Equal(t, 1.0, year.Months[0].Mean)
	assert.Equal(t, "2026-07", year.Months[1].Month)
	assert.Equal(t, 3.0, year.Months[1].Mean)
}

func TestFloodSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flood-monitoring/id/floods", r.URL.Path)
		w.Write([]byte(`{"items": [{"severity": "Flood Alert"}, {"severity": "Flood Warning"}]}`))
	}))
	defer srv.Close()

	snap, err := testClient(srv.URL, "").FloodSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.ActiveWarnings)
}

func TestBathingWater_NearestWithClassification(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/bathing-water/id/bathing-water", func(w http.ResponseWriter, _ *http.Request) {
		// The linked-data endpoint wraps labels in {"_value"}.
		fmt.Fprintf(w, `{"items": [
			{"@id": "%s/bw/1", "label": {"_value": "Brighton Central"}, "lat": 50.82, "long": -0.14}
		]}`, srv.URL)
	})
	mux.HandleFunc("/bw/1/latest-classification", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"items": [{"classification": {"_value": "Excellent"}}]}`))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	bw, err := testClient(srv.URL, "").BathingWater(context.Background(), 50.83, -0.15)
	require.NoError(t, err)

	require.True(t, bw.Available)
	assert.Equal(t, "Brighton Central", bw.Name)
	assert.Equal(t, "Excellent", bw.Classification)
	require.NotNil(t, bw.DistanceKm)
	assert.Less(t, *bw.DistanceKm, 2.0)
}

func TestBathingWater_ClassificationFetchFailureTolerated(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/bathing-water/id/bathing-water", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"items": [{"@id": "%s/bw/1", "name": "Filey"}]}`, srv.URL)
	})
	mux.HandleFunc("/bw/1/latest-classification", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	bw, err := testClient(srv.URL, "").BathingWater(context.Background(), 54.2, -0.3)
	require.NoError(t, err)
	require.True(t, bw.Available)
	assert.Equal(t, "Filey", bw.Name)
	assert.Equal(t, "Unknown", bw.Classification)
}

func TestBathingWater_NoneNearby(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	bw, err := testClient(srv.URL, "").BathingWater(context.Background(), 52.0, -1.0)
	require.NoError(t, err)
	assert.False(t, bw.Available)
	assert.Contains(t, bw.Note, "30km")
}

func TestCatchmentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catchment-planning/WaterBody/nearest", r.URL.Path)
		w.Write([]byte(`{"items": [
			{"name": "River Ouse (upper)", "overallStatus": "Moderate", "classificationCycle": "Cycle 3"}
		]}`))
	}))
	defer srv.Close()

	cs, err := testClient(srv.URL, "").CatchmentStatus(context.Background(), 52.0, -1.0)
	require.NoError(t, err)

	require.True(t, cs.Available)
	assert.Equal(t, "River Ouse (upper)", cs.Name)
	assert.Equal(t, "Moderate", cs.Status)
	assert.Equal(t, "Cycle 3", cs.Cycle)
}

func TestCatchmentStatus_WaterBodiesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"waterBodies": [{"shortName": "Cherwell", "classification": "Good"}]}`))
	}))
	defer srv.Close()

	cs, err := testClient(srv.URL, "").CatchmentStatus(context.Background(), 52.0, -1.0)
	require.NoError(t, err)
	require.True(t, cs.Available)
	assert.Equal(t, "Cherwell", cs.Name)
	assert.Equal(t, "Good", cs.Status)
}

func TestBaselineFloodRisk_Unconfigured(t *testing.T) {
	risk := testClient("http://unused", "").BaselineFloodRisk(context.Background(), 52.0, -1.0)

	assert.Equal(t, domain.RiskUnknown, risk.Level)
	assert.Contains(t, risk.Note, "not configured")
	require.Len(t, risk.Overlays, 1, "fallback still carries a vicinity circle")
}

func TestBaselineFloodRisk_ClassifiesFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "geojson", r.URL.Query().Get("f"))
		assert.Equal(t, "esriGeometryPoint", r.URL.Query().Get("geometryType"))
		w.Write([]byte(`{"type": "FeatureCollection", "features": [
			{"type": "Feature", "properties": {"risk": "High"}, "geometry": {"type": "Polygon", "coordinates": []}}
		]}`))
	}))
	defer srv.Close()

	risk := testClient("http://unused", srv.URL).BaselineFloodRisk(context.Background(), 52.0, -1.0)

	assert.Equal(t, domain.RiskHigh, risk.Level)
	require.Len(t, risk.Overlays, 1)
}

func TestBaselineFloodRisk_DegradesOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	risk := testClient("http://unused", srv.URL).BaselineFloodRisk(context.Background(), 52.0, -1.0)

	assert.Equal(t, domain.RiskUnknown, risk.Level)
	assert.Contains(t, risk.Note, "unavailable")
	require.Len(t, risk.Overlays, 1)
}
