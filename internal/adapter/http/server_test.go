package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/happiness-data-service/internal/adapter/http"
	"github.com/couchcryptid/happiness-data-service/internal/dashboard"
	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

// fakeDashboard records the arguments it was called with and returns err
// from every fallible query.
type fakeDashboard struct {
	err       error
	panicky   bool
	country   string
	indicator string
	start     int
	end       int
	year      int
	region    string
	metric    string
	timeframe domain.Timeframe
}

func (f *fakeDashboard) Bounds() domain.YearBounds { return domain.DefaultYearBounds }

func (f *fakeDashboard) Countries(context.Context) dashboard.Sourced[[]domain.CountrySummary] {
	return dashboard.Sourced[[]domain.CountrySummary]{
		Data:   []domain.CountrySummary{{Code: "IND", Name: "India", Region: "South Asia"}},
		Source: dashboard.SourceLive,
	}
}

func (f *fakeDashboard) ComparableCountries(context.Context) dashboard.Sourced[[]domain.CountrySummary] {
	return dashboard.Sourced[[]domain.CountrySummary]{
		Data:   []domain.CountrySummary{{Code: "FIN", Name: "Finland"}},
		Source: dashboard.SourceMock,
	}
}

func (f *fakeDashboard) IndicatorTrend(_ context.Context, country, indicator string, start, end int) (dashboard.Trend, error) {
	f.country, f.indicator, f.start, f.end = country, indicator, start, end
	return dashboard.Trend{Country: country, Indicator: indicator}, f.err
}

func (f *fakeDashboard) HappinessScore(_ context.Context, country string, year int) (dashboard.Sourced[domain.HappinessScore], error) {
	if f.panicky {
		panic("boom")
	}
	f.country, f.year = country, year
	return dashboard.Sourced[domain.HappinessScore]{Data: domain.HappinessScore{Score: 4.05, Rank: 126}, Source: dashboard.SourceLive}, f.err
}

func (f *fakeDashboard) Compare(_ context.Context, country, indicator string, start, end int) (dashboard.Comparison, error) {
	f.country, f.indicator, f.start, f.end = country, indicator, start, end
	return dashboard.Comparison{Country: country, Years: []int{start, end}}, f.err
}

func (f *fakeDashboard) RegionalSummary(_ context.Context, year int) (dashboard.Sourced[dashboard.RegionalSummary], error) {
	f.year = year
	return dashboard.Sourced[dashboard.RegionalSummary]{Data: dashboard.RegionalSummary{Year: year}, Source: dashboard.SourceMock}, f.err
}

func (f *fakeDashboard) RegionPerformers(_ context.Context, region, metric string) (dashboard.Performers, error) {
	f.region, f.metric = region, metric
	return dashboard.Performers{Metric: metric}, f.err
}

func (f *fakeDashboard) CountryProfile(_ context.Context, country string, timeframe domain.Timeframe) (dashboard.Profile, error) {
	f.country, f.timeframe = country, timeframe
	return dashboard.Profile{Country: country, Timeframe: timeframe}, f.err
}

func newTestServer(dash *fakeDashboard, readyErr error) (*httpadapter.Server, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", []string{"*"}, dash, &mockReadiness{err: readyErr}, logger, metrics), metrics
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, nil)
	rec := get(t, srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, nil)
	rec := get(t, srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, fmt.Errorf("not ready yet"))
	rec := get(t, srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, nil)
	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCountries(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, nil)
	rec := get(t, srv, "/api/v1/countries")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"code":"IND","name":"India","region":"South Asia"}],"source":"live"}`, rec.Body.String())

	rec = get(t, srv, "/api/v1/countries/comparable")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mock", decode(t, rec)["source"])
}

func TestIndicators(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, nil)
	rec := get(t, srv, "/api/v1/indicators")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Indicator
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.Indicators, got)
}

func TestQueryParameters(t *testing.T) {
	tests := []struct {
		name   string
		target string
		check  func(t *testing.T, f *fakeDashboard)
	}{
		{
			name:   "trend with explicit range",
			target: "/api/v1/countries/ind/indicators/SP.DYN.LE00.IN?start=2015&end=2020",
			check: func(t *testing.T, f *fakeDashboard) {
				assert.Equal(t, "ind", f.country)
				assert.Equal(t, "SP.DYN.LE00.IN", f.indicator)
				assert.Equal(t, 2015, f.start)
				assert.Equal(t, 2020, f.end)
			},
		},
		{
			name:   "compare defaults to full window",
			target: "/api/v1/countries/IND/compare/NY.GDP.PCAP.CD",
			check: func(t *testing.T, f *fakeDashboard) {
				assert.Equal(t, 2010, f.start)
				assert.Equal(t, 2023, f.end)
			},
		},
		{
			name:   "happiness defaults to latest year",
			target: "/api/v1/countries/IND/happiness",
			check: func(t *testing.T, f *fakeDashboard) {
				assert.Equal(t, 2023, f.year)
			},
		},
		{
			name:   "regions with year",
			target: "/api/v1/regions?year=2019",
			check: func(t *testing.T, f *fakeDashboard) {
				assert.Equal(t, 2019, f.year)
			},
		},
		{
			name:   "performers",
			target: "/api/v1/regions/south_asia/performers?metric=gdp",
			check: func(t *testing.T, f *fakeDashboard) {
				assert.Equal(t, "south_asia", f.region)
				assert.Equal(t, "gdp", f.metric)
			},
		},
		{
			name:   "profile",
			target: "/api/v1/countries/IND/profile?timeframe=10years",
			check: func(t *testing.T, f *fakeDashboard) {
				assert.Equal(t, "IND", f.country)
				assert.Equal(t, domain.TimeframeTenYears, f.timeframe)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeDashboard{}
			srv, _ := newTestServer(f, nil)
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			tt.check(t, f)
		})
	}
}

func TestNonNumericYearIs400(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, nil)
	rec := get(t, srv, "/api/v1/countries/IND/compare/NY.GDP.PCAP.CD?start=twenty")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "start")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid selection", &domain.InvalidSelectionError{Field: "country", Reason: `"INDIA" is not an ISO3 code`}, http.StatusBadRequest, `invalid country: "INDIA" is not an ISO3 code`},
		{"no overlap", fmt.Errorf("%w: IND", domain.ErrNoOverlap), http.StatusUnprocessableEntity, "no data for this combination"},
		{"no data", fmt.Errorf("%w: IND: %w", domain.ErrNoData, domain.ErrExhaustedSources), http.StatusNotFound, "no data available for the selected parameters"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "upstream timeout"},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(&fakeDashboard{err: tt.err}, nil)
			rec := get(t, srv, "/api/v1/countries/IND/compare/NY.GDP.PCAP.CD")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["error"])
		})
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	srv, metrics := newTestServer(&fakeDashboard{}, nil)

	rec := get(t, srv, "/api/v1/countries/IND/happiness?year=2020")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/api/v1/countries/{code}/happiness", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/api/v1/countries", "200")), 0)
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicIsRecovered(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{panicky: true}, nil)
	rec := get(t, srv, "/api/v1/countries/IND/happiness")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	srv, _ := newTestServer(&fakeDashboard{}, nil)
	rec := get(t, srv, "/api/v1/planets")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
