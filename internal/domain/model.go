package domain

import "time"

// IndicatorRecord is one normalized World Bank observation.
type IndicatorRecord struct {
	Year          int     `json:"year"`
	Value         float64 `json:"value"`
	CountryCode   string  `json:"country_code"`
	CountryName   string  `json:"country_name,omitempty"`
	IndicatorCode string  `json:"indicator_code"`
	IndicatorName string  `json:"indicator_name,omitempty"`
}

// SeriesPoint is a single (year, value) observation of a time series.
type SeriesPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// SeriesFromRecords projects indicator records onto their (year, value) pairs.
func SeriesFromRecords(records []IndicatorRecord) []SeriesPoint {
	out := make([]SeriesPoint, len(records))
	for i, r := range records {
		out[i] = SeriesPoint{Year: r.Year, Value: r.Value}
	}
	return out
}

// HappinessScore is a point-in-time happiness figure for one country.
// Score is on the 0–10 ladder; Rank is 1-based, 0 when the source did not rank.
type HappinessScore struct {
	Score float64 `json:"score"`
	Rank  int     `json:"rank,omitempty"`
}

// CountryScore pairs a country with a score. It is the input shape of the
// regional aggregator.
type CountryScore struct {
	CountryCode string  `json:"country_code"`
	Score       float64 `json:"score"`
}

// CountrySummary identifies a country and the region the source files it under.
type CountrySummary struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// RegionalAggregate summarizes the scores of one region's member countries.
type RegionalAggregate struct {
	RegionName   string  `json:"region_name"`
	AverageScore float64 `json:"average_score"`
	CountryCount int     `json:"country_count"`
	TopCountry   string  `json:"top_country"`
}

// Trend is the sign of a correlation.
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
)

// TrendOf reports positive iff r > 0.
func TrendOf(r float64) Trend {
	if r > 0 {
		return TrendPositive
	}
	return TrendNegative
}

// CorrelationResult describes how an indicator moves with happiness.
type CorrelationResult struct {
	IndicatorLabel string  `json:"indicator"`
	Coefficient    float64 `json:"correlation"`
	Trend          Trend   `json:"trend"`
	Description    string  `json:"description"`
}

// TopPerformer is one row of a within-region comparison.
type TopPerformer struct {
	Country string  `json:"country"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

// RegionInsights summarizes a list of top performers.
type RegionInsights struct {
	TopCountry   string  `json:"top_country"`
	TopScore     float64 `json:"top_score"`
	AverageScore float64 `json:"average_score"`
	Gap          float64 `json:"gap"`
}

// Snapshot is a computed dashboard result handed to an outbound publisher.
type Snapshot struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Subject     string    `json:"subject"`
	GeneratedAt time.Time `json:"generated_at"`
	Data        any       `json:"data"`
}
