package happiness

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
	"github.com/couchcryptid/happiness-data-service/internal/probe"
)

const headerContentType = "Content-Type"

func testClient(countryTemplates, rankingTemplates []string) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prober := probe.NewProber("happiness", probe.NewHTTPFetcher(time.Second), logger, observability.NewMetricsForTesting())
	return NewClient(countryTemplates, rankingTemplates, prober, domain.DefaultYearBounds)
}

func TestExpand(t *testing.T) {
	got := Expand([]string{
		"https://h.example/{country}/scores?from={start}&to={end}",
		"https://h.example/rank/{year}.csv",
	}, "IND", 2023, 2019, 2023)
	assert.Equal(t, []string{
		"https://h.example/IND/scores?from=2019&to=2023",
		"https://h.example/rank/2023.csv",
	}, got)
}

func TestClient_Series_CSVFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/"):
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/data/DNK.csv":
			w.Header().Set(headerContentType, "text/csv")
			_, _ = w.Write([]byte("Country Code,Year,Life Ladder\nDNK,2021,7.6\nDNK,2019,7.7\nDNK,2008,8.0\nDNK,2020,7.5\n"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testClient([]string{
		srv.URL + "/api/{country}?from={start}&to={end}",
		srv.URL + "/data/{country}.csv",
	}, nil)

	got, err := c.Series(context.Background(), "DNK", 2019, 2020)
	require.NoError(t, err)
	assert.Equal(t, []domain.SeriesPoint{{Year: 2019, Value: 7.7}, {Year: 2020, Value: 7.5}}, got)
}

func TestClient_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2022", r.URL.Query().Get("year"))
		w.Header().Set(headerContentType, "application/json")
		_, _ = w.Write([]byte(`{"data":[
		  {"iso3":"FIN","year":2021,"ladder_score":7.82,"overall_rank":1},
		  {"iso3":"FIN","year":2022,"ladder_score":7.80,"overall_rank":1}
		]}`))
	}))
	defer srv.Close()

	c := testClient([]string{srv.URL + "/{country}?year={year}"}, nil)
	got, err := c.Score(context.Background(), "FIN", 2022)
	require.NoError(t, err)
	assert.Equal(t, domain.HappinessScore{Score: 7.80, Rank: 1}, got)
}

func TestClient_Score_YearMissingIsExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, "application/json")
		_, _ = w.Write([]byte(`[{"iso3":"FIN","year":2021,"score":7.8}]`))
	}))
	defer srv.Close()

	c := testClient([]string{srv.URL + "/{country}"}, nil)
	_, err := c.Score(context.Background(), "FIN", 2023)
	assert.ErrorIs(t, err, domain.ErrExhaustedSources)
}

func TestClient_Scores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rank/2023", r.URL.Path)
		w.Header().Set(headerContentType, "application/json")
		_, _ = w.Write([]byte(`[
		  {"country_code":"FIN","happiness_score":7.8,"rank":1},
		  {"country_code":"DNK","happiness_score":7.6,"rank":2},
		  {"happiness_score":6.0}
		]`))
	}))
	defer srv.Close()

	c := testClient(nil, []string{srv.URL + "/rank/{year}"})
	got, err := c.Scores(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, []domain.CountryScore{
		{CountryCode: "FIN", Score: 7.8},
		{CountryCode: "DNK", Score: 7.6},
	}, got)
}

func TestClient_NoTemplates(t *testing.T) {
	c := testClient(nil, nil)
	_, err := c.Scores(context.Background(), 2023)
	assert.ErrorIs(t, err, domain.ErrExhaustedSources)
}
