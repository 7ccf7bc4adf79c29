// Package mock is the terminal fallback for every dashboard query. It serves
// static tables and formula-generated series and never performs I/O.
package mock

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/stats"
)

// DefaultHappiness is returned for countries missing from the table.
var DefaultHappiness = domain.HappinessScore{Score: 5.0, Rank: 100}

var happiness = map[string]domain.HappinessScore{
	"DNK": {Score: 7.6, Rank: 2},
	"CHE": {Score: 7.5, Rank: 3},
	"ISL": {Score: 7.4, Rank: 4},
	"FIN": {Score: 7.4, Rank: 1},
	"NLD": {Score: 7.3, Rank: 5},
	"USA": {Score: 6.9, Rank: 15},
	"CAN": {Score: 7.0, Rank: 13},
	"GBR": {Score: 7.0, Rank: 19},
	"DEU": {Score: 7.0, Rank: 16},
	"FRA": {Score: 6.7, Rank: 21},
	"IND": {Score: 4.0, Rank: 126},
	"CHN": {Score: 5.3, Rank: 72},
	"JPN": {Score: 6.0, Rank: 47},
	"BRA": {Score: 6.1, Rank: 49},
	"AUS": {Score: 7.1, Rank: 12},
	"NZL": {Score: 7.1, Rank: 11},
}

// HappinessScore returns the tabled score and rank for a country code.
func HappinessScore(code string) domain.HappinessScore {
	if s, ok := happiness[strings.ToUpper(code)]; ok {
		return s
	}
	return DefaultHappiness
}

// HappinessScores returns every tabled country with its score, in the order
// of domain.Regions members. cmd/genmock writes it into the fixture.
func HappinessScores() []domain.CountryScore {
	var out []domain.CountryScore
	for _, r := range domain.RegionList {
		for _, code := range domain.Regions[r.Name] {
			if s, ok := happiness[code]; ok {
				out = append(out, domain.CountryScore{CountryCode: code, Score: s.Score})
			}
		}
	}
	return out
}

// Countries is the fallback country list.
func Countries() []domain.CountrySummary {
	return []domain.CountrySummary{
		{Code: "USA", Name: "United States", Region: "North America"},
		{Code: "CAN", Name: "Canada", Region: "North America"},
		{Code: "GBR", Name: "United Kingdom", Region: "Europe & Central Asia"},
		{Code: "DEU", Name: "Germany", Region: "Europe & Central Asia"},
		{Code: "FRA", Name: "France", Region: "Europe & Central Asia"},
		{Code: "JPN", Name: "Japan", Region: "East Asia & Pacific"},
		{Code: "IND", Name: "India", Region: "South Asia"},
		{Code: "CHN", Name: "China", Region: "East Asia & Pacific"},
		{Code: "BRA", Name: "Brazil", Region: "Latin America & Caribbean"},
		{Code: "AUS", Name: "Australia", Region: "East Asia & Pacific"},
	}
}

// ComparatorCountries is the fallback list offered by the happiness comparator.
func ComparatorCountries() []domain.CountrySummary {
	return []domain.CountrySummary{
		{Code: "DNK", Name: "Denmark"},
		{Code: "CHE", Name: "Switzerland"},
		{Code: "ISL", Name: "Iceland"},
		{Code: "FIN", Name: "Finland"},
		{Code: "NLD", Name: "Netherlands"},
		{Code: "USA", Name: "United States"},
		{Code: "CAN", Name: "Canada"},
		{Code: "IND", Name: "India"},
	}
}

// RegionalSummaries returns the static per-region aggregates keyed by region
// name. TopCountry holds a display name here, not an ISO3 code.
func RegionalSummaries() map[string]domain.RegionalAggregate {
	rows := []domain.RegionalAggregate{
		{RegionName: "Western Europe", AverageScore: 7.2, CountryCount: 14, TopCountry: "Finland"},
		{RegionName: "North America", AverageScore: 6.95, CountryCount: 2, TopCountry: "Canada"},
		{RegionName: "Australia and New Zealand", AverageScore: 7.1, CountryCount: 2, TopCountry: "New Zealand"},
		{RegionName: "Middle East and North Africa", AverageScore: 5.3, CountryCount: 12, TopCountry: "Israel"},
		{RegionName: "Latin America and Caribbean", AverageScore: 5.8, CountryCount: 12, TopCountry: "Costa Rica"},
		{RegionName: "Central and Eastern Europe", AverageScore: 6.1, CountryCount: 12, TopCountry: "Czech Republic"},
		{RegionName: "East Asia", AverageScore: 5.9, CountryCount: 7, TopCountry: "Taiwan"},
		{RegionName: "Southeast Asia", AverageScore: 5.4, CountryCount: 7, TopCountry: "Thailand"},
		{RegionName: "South Asia", AverageScore: 4.6, CountryCount: 7, TopCountry: "Nepal"},
		{RegionName: "Sub-Saharan Africa", AverageScore: 4.2, CountryCount: 10, TopCountry: "Mauritius"},
	}
	out := make(map[string]domain.RegionalAggregate, len(rows))
	for _, r := range rows {
		out[r.RegionName] = r
	}
	return out
}

// Metrics accepted by TopPerformers.
const (
	MetricHappiness = "happiness"
	MetricGDP       = "gdp"
)

var performers = map[string]map[string][]domain.TopPerformer{
	"western_europe": {
		MetricHappiness: {
			{Country: "Finland", Score: 7.8, Rank: 1},
			{Country: "Denmark", Score: 7.6, Rank: 2},
			{Country: "Switzerland", Score: 7.5, Rank: 3},
			{Country: "Iceland", Score: 7.4, Rank: 4},
			{Country: "Netherlands", Score: 7.3, Rank: 5},
		},
		MetricGDP: {
			{Country: "Luxembourg", Score: 115000, Rank: 1},
			{Country: "Switzerland", Score: 85000, Rank: 2},
			{Country: "Norway", Score: 78000, Rank: 3},
			{Country: "Ireland", Score: 75000, Rank: 4},
			{Country: "Denmark", Score: 62000, Rank: 5},
		},
	},
	"south_asia": {
		MetricHappiness: {
			{Country: "Nepal", Score: 5.2, Rank: 1},
			{Country: "Pakistan", Score: 4.5, Rank: 2},
			{Country: "Sri Lanka", Score: 4.3, Rank: 3},
			{Country: "India", Score: 4.0, Rank: 4},
			{Country: "Bangladesh", Score: 3.8, Rank: 5},
		},
		MetricGDP: {
			{Country: "India", Score: 2500, Rank: 1},
			{Country: "Sri Lanka", Score: 3800, Rank: 2},
			{Country: "Pakistan", Score: 1500, Rank: 3},
			{Country: "Bangladesh", Score: 2200, Rank: 4},
			{Country: "Nepal", Score: 1200, Rank: 5},
		},
	},
	"north_america": {
		MetricHappiness: {
			{Country: "Canada", Score: 7.0, Rank: 1},
			{Country: "United States", Score: 6.9, Rank: 2},
		},
		MetricGDP: {
			{Country: "United States", Score: 65000, Rank: 1},
			{Country: "Canada", Score: 52000, Rank: 2},
		},
	},
}

// TopPerformers returns the within-region comparison for a region key and
// metric. Unknown combinations fall back to Western Europe happiness.
func TopPerformers(regionKey, metric string) []domain.TopPerformer {
	rows, ok := performers[regionKey][metric]
	if !ok {
		rows = performers["western_europe"][MetricHappiness]
	}
	out := make([]domain.TopPerformer, len(rows))
	copy(out, rows)
	return out
}

// ReferenceCountry is the country the correlation table was computed for.
const ReferenceCountry = "IND"

// IndicatorCorrelations returns the reference correlation table. Only the
// reference country has one; other codes get nil.
func IndicatorCorrelations(code string) []domain.CorrelationResult {
	if strings.ToUpper(code) != ReferenceCountry {
		return nil
	}
	return []domain.CorrelationResult{
		{IndicatorLabel: "Social Support", Coefficient: 0.81, Trend: domain.TrendPositive, Description: "Very strong positive correlation"},
		{IndicatorLabel: "GDP per Capita", Coefficient: 0.78, Trend: domain.TrendPositive, Description: "Strong positive correlation with happiness"},
		{IndicatorLabel: "Education Index", Coefficient: 0.72, Trend: domain.TrendPositive, Description: "Strong positive correlation"},
		{IndicatorLabel: "Life Expectancy", Coefficient: 0.65, Trend: domain.TrendPositive, Description: "Moderate positive correlation"},
		{IndicatorLabel: "Unemployment Rate", Coefficient: -0.58, Trend: domain.TrendNegative, Description: "Moderate negative correlation"},
		{IndicatorLabel: "Air Pollution", Coefficient: -0.43, Trend: domain.TrendNegative, Description: "Moderate negative correlation"},
	}
}

// HappinessSeries generates one synthetic score per year in [start, end]:
//
//	clamp(base + sin(i*0.5)*0.3 + U(-0.1, 0.1), 0, 10)
//
// rounded to 2 decimals, where i is the offset of the year from start. The
// noise comes from rng; a nil rng uses the unseeded global source, so output
// is only reproducible with a seeded rng.
func HappinessSeries(rng *rand.Rand, base float64, start, end int) []domain.SeriesPoint {
	if end < start {
		return nil
	}
	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}

	out := make([]domain.SeriesPoint, 0, end-start+1)
	for year := start; year <= end; year++ {
		i := float64(year - start)
		noise := uniform()*0.2 - 0.1
		v := stats.Clamp(base+math.Sin(i*0.5)*0.3+noise, 0, 10)
		out = append(out, domain.SeriesPoint{Year: year, Value: stats.Round(v, 2)})
	}
	return out
}
