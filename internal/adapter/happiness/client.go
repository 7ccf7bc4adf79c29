// Package happiness reads World Happiness Report data from candidate
// endpoints whose schema is not stable.
package happiness

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/normalize"
	"github.com/couchcryptid/happiness-data-service/internal/probe"
)

// Client expands URL templates into candidate lists. Templates may use the
// placeholders {country}, {year}, {start} and {end}.
type Client struct {
	countryTemplates []string
	rankingTemplates []string
	prober           *probe.Prober
	bounds           domain.YearBounds
}

// NewClient creates a happiness client. countryTemplates serve per-country
// series; rankingTemplates serve one year of scores across countries.
func NewClient(countryTemplates, rankingTemplates []string, prober *probe.Prober, bounds domain.YearBounds) *Client {
	return &Client{
		countryTemplates: countryTemplates,
		rankingTemplates: rankingTemplates,
		prober:           prober,
		bounds:           bounds,
	}
}

// Expand substitutes placeholders in every template.
func Expand(templates []string, country string, year, start, end int) []string {
	r := strings.NewReplacer(
		"{country}", url.PathEscape(country),
		"{year}", strconv.Itoa(year),
		"{start}", strconv.Itoa(start),
		"{end}", strconv.Itoa(end),
	)
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = r.Replace(t)
	}
	return out
}

// SeriesURLs returns the candidates for a country's series.
func (c *Client) SeriesURLs(country string, start, end int) []string {
	return Expand(c.countryTemplates, country, end, start, end)
}

// RankingURLs returns the candidates for one year's ranking.
func (c *Client) RankingURLs(year int) []string {
	return Expand(c.rankingTemplates, "", year, year, year)
}

// belongsTo reports whether a record can describe country. Records that do
// not name a country are assumed to belong to the one requested.
func belongsTo(r normalize.ScoreRecord, country string) bool {
	return r.CountryCode == "" || r.CountryCode == country
}

// Score returns the happiness score and rank of a country for one year. A
// source that does not report years contributes its first matching row.
func (c *Client) Score(ctx context.Context, country string, year int) (domain.HappinessScore, error) {
	parse := func(p normalize.Payload) ([]domain.HappinessScore, error) {
		recs, err := normalize.ScoreRecords(p)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			if belongsTo(r, country) && (!r.HasYear || r.Year == year) {
				return []domain.HappinessScore{{Score: r.Score, Rank: r.Rank}}, nil
			}
		}
		return nil, nil
	}

	scores, err := probe.Probe(ctx, c.prober, Expand(c.countryTemplates, country, year, year, year), parse)
	if err != nil {
		return domain.HappinessScore{}, fmt.Errorf("happiness score %s/%d: %w", country, year, err)
	}
	return scores[0], nil
}

// Series returns a country's yearly scores within [start, end].
func (c *Client) Series(ctx context.Context, country string, start, end int) ([]domain.SeriesPoint, error) {
	window := domain.YearBounds{Min: max(start, c.bounds.Min), Max: min(end, c.bounds.Max)}
	parse := func(p normalize.Payload) ([]domain.SeriesPoint, error) {
		recs, err := normalize.ScoreRecords(p)
		if err != nil {
			return nil, err
		}
		return normalize.HappinessSeries(recs, country, window), nil
	}

	series, err := probe.Probe(ctx, c.prober, c.SeriesURLs(country, start, end), parse)
	if err != nil {
		return nil, fmt.Errorf("happiness series %s/%d-%d: %w", country, start, end, err)
	}
	return series, nil
}

// Scores returns one year's scores for every country the source ranks.
func (c *Client) Scores(ctx context.Context, year int) ([]domain.CountryScore, error) {
	parse := func(p normalize.Payload) ([]domain.CountryScore, error) {
		recs, err := normalize.ScoreRecords(p)
		if err != nil {
			return nil, err
		}
		kept := recs[:0]
		for _, r := range recs {
			if !r.HasYear || r.Year == year {
				kept = append(kept, r)
			}
		}
		return normalize.CountryScores(kept), nil
	}

	scores, err := probe.Probe(ctx, c.prober, c.RankingURLs(year), parse)
	if err != nil {
		return nil, fmt.Errorf("happiness ranking %d: %w", year, err)
	}
	return scores, nil
}
