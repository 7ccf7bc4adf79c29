package dashboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/couchcryptid/happiness-data-service/internal/chart"
	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/mock"
	"github.com/couchcryptid/happiness-data-service/internal/region"
	"github.com/couchcryptid/happiness-data-service/internal/stats"
)

// topPerformerCount caps the within-region comparison.
const topPerformerCount = 5

var errNoRegions = errors.New("no scored country falls in any region")

// Trend is an indicator's yearly series for one country.
type Trend struct {
	Country     string        `json:"country"`
	CountryName string        `json:"country_name"`
	Indicator   string        `json:"indicator"`
	Label       string        `json:"label"`
	Points      []chart.Point `json:"points"`
}

// Comparison relates an indicator to happiness over their common years.
type Comparison struct {
	Country         string                   `json:"country"`
	CountryName     string                   `json:"country_name"`
	Indicator       string                   `json:"indicator"`
	Label           string                   `json:"label"`
	Years           []int                    `json:"years"`
	Happiness       []chart.Point            `json:"happiness"`
	IndicatorSeries []chart.Point            `json:"indicator_series"`
	Scatter         []chart.XY               `json:"scatter"`
	Correlation     domain.CorrelationResult `json:"correlation"`
	Strength        string                   `json:"strength"`
	HappinessSource string                   `json:"happiness_source"`
}

// RegionalSummary is the per-region aggregate view for one year.
type RegionalSummary struct {
	Year    int                        `json:"year"`
	Regions []domain.RegionalAggregate `json:"regions"`
	Bars    []chart.Bar                `json:"bars"`
}

// Performers is the within-region comparison for one metric.
type Performers struct {
	Region     domain.RegionInfo     `json:"region"`
	Metric     string                `json:"metric"`
	Label      string                `json:"label"`
	Performers []domain.TopPerformer `json:"performers"`
	Insights   domain.RegionInsights `json:"insights"`
	Bars       []chart.Bar           `json:"bars"`
	Source     string                `json:"source"`
}

// Profile is the single-country dashboard.
type Profile struct {
	Country            string                              `json:"country"`
	CountryName        string                              `json:"country_name"`
	Timeframe          domain.Timeframe                    `json:"timeframe"`
	StartYear          int                                 `json:"start_year"`
	EndYear            int                                 `json:"end_year"`
	Happiness          Sourced[domain.HappinessScore]      `json:"happiness"`
	Correlations       Sourced[[]domain.CorrelationResult] `json:"correlations"`
	CorrelationBars    []chart.Bar                         `json:"correlation_bars"`
	LatestGDP          *float64                            `json:"latest_gdp,omitempty"`
	LatestGDPYear      int                                 `json:"latest_gdp_year,omitempty"`
	LatestGDPFormatted string                              `json:"latest_gdp_formatted"`
}

// Countries returns the country list, live or fallback. Concurrent calls
// are safe; the newest call's result is the one remembered for name lookups.
func (s *Service) Countries(ctx context.Context) Sourced[[]domain.CountrySummary] {
	ticket := s.countries.Begin()
	res, err := withFallback(ctx, s, "countries", s.indicators.Countries, mock.Countries)
	if err != nil {
		// Cancelled before anything resolved; the static list is still correct.
		res = Sourced[[]domain.CountrySummary]{Data: mock.Countries(), Source: SourceMock}
	}
	s.countries.Commit(ticket, res)
	s.ready.Store(true)
	return res
}

// ComparableCountries returns the countries offered by the happiness
// comparator: the live list narrowed to those with happiness coverage.
func (s *Service) ComparableCountries(ctx context.Context) Sourced[[]domain.CountrySummary] {
	all := s.Countries(ctx)
	if all.Source == SourceLive {
		var out []domain.CountrySummary
		for _, c := range all.Data {
			if slices.Contains(domain.ComparatorCountryCodes, c.Code) {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return Sourced[[]domain.CountrySummary]{Data: out, Source: SourceLive}
		}
	}
	return Sourced[[]domain.CountrySummary]{Data: mock.ComparatorCountries(), Source: SourceMock}
}

// countryName resolves a display name from the last loaded country list.
func (s *Service) countryName(code string) string {
	if res, ok := s.countries.Current(); ok {
		for _, c := range res.Data {
			if c.Code == code {
				return c.Name
			}
		}
	}
	for _, list := range [][]domain.CountrySummary{mock.Countries(), mock.ComparatorCountries()} {
		for _, c := range list {
			if c.Code == code {
				return c.Name
			}
		}
	}
	return code
}

func (s *Service) validateSeriesQuery(country, indicator string, start, end int) (string, string, error) {
	code, err := domain.NormalizeCountryCode(country)
	if err != nil {
		return "", "", err
	}
	ind, err := domain.NormalizeIndicatorCode(indicator)
	if err != nil {
		return "", "", err
	}
	if err := s.bounds.ValidateRange(start, end); err != nil {
		return "", "", err
	}
	return code, ind, nil
}

// indicatorRecords fetches an indicator series. Exhausted sources become
// domain.ErrNoData since no fallback series exists for indicators.
func (s *Service) indicatorRecords(ctx context.Context, country, indicator string, start, end int) ([]domain.IndicatorRecord, error) {
	records, err := s.indicators.Indicator(ctx, country, indicator, start, end)
	if err != nil {
		if errors.Is(err, domain.ErrExhaustedSources) {
			return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrNoData, country, indicator, err)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNoData, country, indicator)
	}
	return records, nil
}

// IndicatorTrend returns one indicator's series for a country over [start, end].
func (s *Service) IndicatorTrend(ctx context.Context, country, indicator string, start, end int) (Trend, error) {
	code, ind, err := s.validateSeriesQuery(country, indicator, start, end)
	if err != nil {
		return Trend{}, err
	}

	records, err := s.indicatorRecords(ctx, code, ind, start, end)
	if err != nil {
		return Trend{}, err
	}

	return Trend{
		Country:     code,
		CountryName: s.countryName(code),
		Indicator:   ind,
		Label:       domain.IndicatorLabel(ind),
		Points:      chart.Line(domain.SeriesFromRecords(records)),
	}, nil
}

// HappinessScore returns a country's score and rank for a year.
func (s *Service) HappinessScore(ctx context.Context, country string, year int) (Sourced[domain.HappinessScore], error) {
	code, err := domain.NormalizeCountryCode(country)
	if err != nil {
		return Sourced[domain.HappinessScore]{}, err
	}
	if err := s.bounds.ValidateYear(year); err != nil {
		return Sourced[domain.HappinessScore]{}, err
	}

	return withFallback(ctx, s, "happiness_score",
		func(ctx context.Context) (domain.HappinessScore, error) {
			return s.happiness.Score(ctx, code, year)
		},
		func() domain.HappinessScore { return mock.HappinessScore(code) },
	)
}

// Compare aligns an indicator with happiness for a country and correlates
// them. The happiness side always resolves, falling back to a synthetic
// series; an indicator with no data yields domain.ErrNoData and disjoint
// years yield domain.ErrNoOverlap.
func (s *Service) Compare(ctx context.Context, country, indicator string, start, end int) (Comparison, error) {
	code, ind, err := s.validateSeriesQuery(country, indicator, start, end)
	if err != nil {
		return Comparison{}, err
	}

	records, err := s.indicatorRecords(ctx, code, ind, start, end)
	if err != nil {
		return Comparison{}, err
	}

	happiness, err := withFallback(ctx, s, "happiness_series",
		func(ctx context.Context) ([]domain.SeriesPoint, error) {
			return s.happiness.Series(ctx, code, start, end)
		},
		func() []domain.SeriesPoint { return s.syntheticSeries(code, start, end) },
	)
	if err != nil {
		return Comparison{}, err
	}

	aligned := stats.Align(domain.SeriesFromRecords(records), happiness.Data)
	if aligned.Empty() {
		return Comparison{}, fmt.Errorf("%w: %s %s %d-%d", domain.ErrNoOverlap, code, ind, start, end)
	}

	label := domain.IndicatorLabel(ind)
	corr := stats.Correlate(label, aligned)
	out := Comparison{
		Country:         code,
		CountryName:     s.countryName(code),
		Indicator:       ind,
		Label:           label,
		Years:           aligned.Years,
		Happiness:       chart.LineFromValues(aligned.Years, aligned.B),
		IndicatorSeries: chart.LineFromValues(aligned.Years, aligned.A),
		Scatter:         chart.Scatter(aligned.A, aligned.B),
		Correlation:     corr,
		Strength:        stats.Strength(corr.Coefficient),
		HappinessSource: happiness.Source,
	}

	s.publish(ctx, SnapshotComparison, code+"/"+ind, out)
	return out, nil
}

// RegionalSummary aggregates one year's scores by region.
func (s *Service) RegionalSummary(ctx context.Context, year int) (Sourced[RegionalSummary], error) {
	if err := s.bounds.ValidateYear(year); err != nil {
		return Sourced[RegionalSummary]{}, err
	}

	res, err := withFallback(ctx, s, "regional",
		func(ctx context.Context) (map[string]domain.RegionalAggregate, error) {
			scores, err := s.happiness.Scores(ctx, year)
			if err != nil {
				return nil, err
			}
			aggs := region.Aggregate(scores, domain.Regions)
			if len(aggs) == 0 {
				return nil, errNoRegions
			}
			return aggs, nil
		},
		mock.RegionalSummaries,
	)
	if err != nil {
		return Sourced[RegionalSummary]{}, err
	}

	ordered := region.Ordered(res.Data)
	labels := make([]string, len(ordered))
	values := make([]float64, len(ordered))
	for i, a := range ordered {
		labels[i] = a.RegionName
		values[i] = stats.Round(a.AverageScore, 2)
	}

	out := Sourced[RegionalSummary]{
		Data:   RegionalSummary{Year: year, Regions: ordered, Bars: chart.Bars(labels, values)},
		Source: res.Source,
	}
	s.publish(ctx, SnapshotRegional, fmt.Sprintf("%d", year), out)
	return out, nil
}

// metricLabel returns the display label of a within-region metric.
func metricLabel(metric string) (string, bool) {
	switch metric {
	case mock.MetricHappiness:
		return "Happiness Score", true
	case mock.MetricGDP:
		return domain.IndicatorLabel(domain.IndicatorGDPPerCapita), true
	default:
		return "", false
	}
}

// RegionPerformers ranks the best countries of a region on a metric.
// Happiness is ranked from the live ranking for the latest year; GDP is
// served from the static table.
func (s *Service) RegionPerformers(ctx context.Context, regionKey, metric string) (Performers, error) {
	info, ok := domain.RegionByKey(regionKey)
	if !ok {
		return Performers{}, &domain.InvalidSelectionError{Field: "region", Reason: fmt.Sprintf("unknown region %q", regionKey)}
	}
	if metric == "" {
		metric = mock.MetricHappiness
	}
	label, ok := metricLabel(metric)
	if !ok {
		return Performers{}, &domain.InvalidSelectionError{Field: "metric", Reason: fmt.Sprintf("unknown metric %q", metric)}
	}

	var rows Sourced[[]domain.TopPerformer]
	if metric == mock.MetricHappiness {
		var err error
		rows, err = withFallback(ctx, s, "performers",
			func(ctx context.Context) ([]domain.TopPerformer, error) {
				return s.livePerformers(ctx, info)
			},
			func() []domain.TopPerformer { return mock.TopPerformers(info.Key, metric) },
		)
		if err != nil {
			return Performers{}, err
		}
	} else {
		rows = Sourced[[]domain.TopPerformer]{Data: mock.TopPerformers(info.Key, metric), Source: SourceMock}
	}

	insights, _ := region.Insights(rows.Data)
	labels := make([]string, len(rows.Data))
	values := make([]float64, len(rows.Data))
	for i, p := range rows.Data {
		labels[i] = p.Country
		values[i] = p.Score
	}

	return Performers{
		Region:     info,
		Metric:     metric,
		Label:      label,
		Performers: rows.Data,
		Insights:   insights,
		Bars:       chart.Bars(labels, values),
		Source:     rows.Source,
	}, nil
}

func (s *Service) livePerformers(ctx context.Context, info domain.RegionInfo) ([]domain.TopPerformer, error) {
	scores, err := s.happiness.Scores(ctx, s.bounds.Max)
	if err != nil {
		return nil, err
	}
	members := domain.Regions[info.Name]

	seen := make(map[string]struct{})
	var in []domain.CountryScore
	for _, sc := range scores {
		if _, dup := seen[sc.CountryCode]; dup || !slices.Contains(members, sc.CountryCode) {
			continue
		}
		seen[sc.CountryCode] = struct{}{}
		in = append(in, sc)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no ranked members in %s", domain.ErrNoData, info.Name)
	}

	slices.SortStableFunc(in, func(a, b domain.CountryScore) int { return cmp.Compare(b.Score, a.Score) })
	in = in[:min(len(in), topPerformerCount)]

	out := make([]domain.TopPerformer, len(in))
	for i, sc := range in {
		out[i] = domain.TopPerformer{Country: s.countryName(sc.CountryCode), Score: sc.Score, Rank: i + 1}
	}
	return out, nil
}

// CountryProfile assembles the single-country dashboard for a timeframe:
// current happiness, the correlation of each catalog indicator with
// happiness, and the latest GDP per capita.
func (s *Service) CountryProfile(ctx context.Context, country string, timeframe domain.Timeframe) (Profile, error) {
	code, err := domain.NormalizeCountryCode(country)
	if err != nil {
		return Profile{}, err
	}
	start, end, err := timeframe.Years(s.bounds)
	if err != nil {
		return Profile{}, err
	}
	if timeframe == "" {
		timeframe = domain.TimeframeFiveYears
	}

	happiness, err := s.HappinessScore(ctx, code, end)
	if err != nil {
		return Profile{}, err
	}

	gdp, gdpErr := s.indicators.Indicator(ctx, code, domain.IndicatorGDPPerCapita, start, end)
	if gdpErr != nil {
		s.logger.Debug("gdp unavailable for profile", "country", code, "error", gdpErr)
	}

	correlations, err := withFallback(ctx, s, "correlations",
		func(ctx context.Context) ([]domain.CorrelationResult, error) {
			return s.liveCorrelations(ctx, code, start, end, gdp)
		},
		func() []domain.CorrelationResult {
			if rows := mock.IndicatorCorrelations(code); rows != nil {
				return rows
			}
			return []domain.CorrelationResult{}
		},
	)
	if err != nil {
		return Profile{}, err
	}

	labels := make([]string, len(correlations.Data))
	values := make([]float64, len(correlations.Data))
	for i, c := range correlations.Data {
		labels[i] = c.IndicatorLabel
		values[i] = stats.Round(math.Abs(c.Coefficient), 3)
	}

	out := Profile{
		Country:         code,
		CountryName:     s.countryName(code),
		Timeframe:       timeframe,
		StartYear:       start,
		EndYear:         end,
		Happiness:       happiness,
		Correlations:    correlations,
		CorrelationBars: chart.Bars(labels, values),
	}
	if len(gdp) > 0 {
		last := gdp[len(gdp)-1]
		out.LatestGDP = &last.Value
		out.LatestGDPYear = last.Year
	}
	out.LatestGDPFormatted = formatCurrency(out.LatestGDP)

	s.publish(ctx, SnapshotProfile, code+"/"+string(timeframe), out)
	return out, nil
}

// liveCorrelations correlates every catalog indicator with the live
// happiness series. GDP per capita is taken from gdp rather than refetched.
func (s *Service) liveCorrelations(ctx context.Context, code string, start, end int, gdp []domain.IndicatorRecord) ([]domain.CorrelationResult, error) {
	happiness, err := s.happiness.Series(ctx, code, start, end)
	if err != nil {
		return nil, err
	}

	var out []domain.CorrelationResult
	for _, ind := range domain.Indicators {
		records := gdp
		if ind.Code != domain.IndicatorGDPPerCapita {
			records, err = s.indicators.Indicator(ctx, code, ind.Code, start, end)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
		}
		aligned := stats.Align(domain.SeriesFromRecords(records), happiness)
		if len(aligned.Years) < 2 {
			continue
		}
		out = append(out, stats.Correlate(ind.Label, aligned))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no indicator overlaps happiness for %s", domain.ErrNoOverlap, code)
	}

	slices.SortStableFunc(out, func(a, b domain.CorrelationResult) int {
		return cmp.Compare(math.Abs(b.Coefficient), math.Abs(a.Coefficient))
	})
	return out, nil
}

func formatCurrency(v *float64) string {
	if v == nil {
		return chart.FormatOptional(nil, 0)
	}
	return "$" + chart.FormatGrouped(*v, 0)
}
