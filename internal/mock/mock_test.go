package mock

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/stats"
)

func TestHappinessScore_Tabled(t *testing.T) {
	assert.Equal(t, domain.HappinessScore{Score: 7.4, Rank: 1}, HappinessScore("FIN"))
	assert.Equal(t, domain.HappinessScore{Score: 4.0, Rank: 126}, HappinessScore("ind"))
}

func TestHappinessScore_Default(t *testing.T) {
	assert.Equal(t, DefaultHappiness, HappinessScore("ZZZ"))
}

func TestHappinessScore_Idempotent(t *testing.T) {
	for _, code := range []string{"DNK", "IND", "NZL", "XYZ"} {
		first := HappinessScore(code)
		for range 100 {
			got := HappinessScore(code)
			assert.Equal(t, math.Float64bits(first.Score), math.Float64bits(got.Score), code)
			assert.Equal(t, first.Rank, got.Rank, code)
		}
	}
}

func TestHappinessScores_FollowRegionOrder(t *testing.T) {
	scores := HappinessScores()
	require.Len(t, scores, len(happiness))
	assert.Equal(t, "DNK", scores[0].CountryCode)
	owner := domain.RegionOwners(domain.Regions)
	for _, s := range scores {
		_, ok := owner[s.CountryCode]
		assert.True(t, ok, s.CountryCode)
	}
}

func TestCountries(t *testing.T) {
	cs := Countries()
	require.Len(t, cs, 10)
	assert.Equal(t, domain.CountrySummary{Code: "USA", Name: "United States", Region: "North America"}, cs[0])
	assert.Len(t, ComparatorCountries(), 8)
}

func TestRegionalSummaries(t *testing.T) {
	rs := RegionalSummaries()
	require.Len(t, rs, len(domain.Regions))
	for name := range domain.Regions {
		_, ok := rs[name]
		assert.True(t, ok, name)
	}
	assert.Equal(t, domain.RegionalAggregate{RegionName: "North America", AverageScore: 6.95, CountryCount: 2, TopCountry: "Canada"}, rs["North America"])
}

func TestTopPerformers(t *testing.T) {
	tests := []struct {
		region, metric string
		wantFirst      string
		wantLen        int
	}{
		{"western_europe", MetricHappiness, "Finland", 5},
		{"western_europe", MetricGDP, "Luxembourg", 5},
		{"south_asia", MetricGDP, "India", 5},
		{"north_america", MetricHappiness, "Canada", 2},
		{"east_asia", MetricHappiness, "Finland", 5},
		{"north_america", "co2", "Finland", 5},
	}
	for _, tt := range tests {
		t.Run(tt.region+"/"+tt.metric, func(t *testing.T) {
			got := TopPerformers(tt.region, tt.metric)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantFirst, got[0].Country)
		})
	}
}

func TestTopPerformers_ReturnsCopy(t *testing.T) {
	got := TopPerformers("north_america", MetricHappiness)
	got[0].Country = "Mutated"
	assert.Equal(t, "Canada", TopPerformers("north_america", MetricHappiness)[0].Country)
}

func TestIndicatorCorrelations(t *testing.T) {
	rows := IndicatorCorrelations("IND")
	require.Len(t, rows, 6)
	for _, r := range rows {
		assert.Equal(t, domain.TrendOf(r.Coefficient), r.Trend, r.IndicatorLabel)
		assert.LessOrEqual(t, math.Abs(r.Coefficient), 1.0)
	}
	assert.Nil(t, IndicatorCorrelations("FIN"))
}

func TestHappinessSeries_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, base := range []float64{0, 0.05, 4.0, 7.6, 9.95, 10} {
		series := HappinessSeries(rng, base, 2010, 2023)
		require.Len(t, series, 14)
		for i, p := range series {
			assert.Equal(t, 2010+i, p.Year)
			assert.GreaterOrEqual(t, p.Value, 0.0)
			assert.LessOrEqual(t, p.Value, 10.0)
			want := stats.Clamp(base+math.Sin(float64(i)*0.5)*0.3, 0, 10)
			assert.InDelta(t, want, p.Value, 0.1+0.005+1e-9)
			assert.InDelta(t, p.Value, math.Round(p.Value*100)/100, 1e-12, "rounded to 2 decimals")
		}
	}
}

func TestHappinessSeries_SeededIsReproducible(t *testing.T) {
	a := HappinessSeries(rand.New(rand.NewPCG(42, 42)), 6.0, 2015, 2020)
	b := HappinessSeries(rand.New(rand.NewPCG(42, 42)), 6.0, 2015, 2020)
	assert.Equal(t, a, b)
}

func TestHappinessSeries_EmptyRange(t *testing.T) {
	assert.Empty(t, HappinessSeries(nil, 5, 2020, 2019))
	assert.Len(t, HappinessSeries(nil, 5, 2020, 2020), 1)
}
