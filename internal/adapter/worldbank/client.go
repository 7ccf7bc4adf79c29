package worldbank

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

// Client reads indicator series and the country list from the World Bank
// API, trying each configured base URL in order.
type Client struct {
	baseURLs []string
	prober   *probe.Prober
	bounds   domain.YearBounds
}

// NewClient creates a World Bank client over the given mirrors.
func NewClient(baseURLs []string, prober *probe.Prober, bounds domain.YearBounds) *Client {
	trimmed := make([]string, len(baseURLs))
	for i, u := range baseURLs {
		trimmed[i] = strings.TrimRight(u, "/")
	}
	return &Client{
		baseURLs: trimmed,
		prober:   prober,
		bounds:   bounds,
	}
}

// IndicatorURLs returns the candidate URLs for an indicator query.
func (c *Client) IndicatorURLs(country, indicator string, start, end int) []string {
	params := url.Values{
		"date":     {fmt.Sprintf("%d:%d", start, end)},
		"format":   {"json"},
		"per_page": {"1000"},
	}
	out := make([]string, len(c.baseURLs))
	for i, base := range c.baseURLs {
		out[i] = fmt.Sprintf("%s/country/%s/indicator/%s?%s",
			base, url.PathEscape(country), url.PathEscape(indicator), params.Encode())
	}
	return out
}

// CountryURLs returns the candidate URLs for the country list.
func (c *Client) CountryURLs() []string {
	params := url.Values{
		"format":   {"json"},
		"per_page": {"300"},
	}
	out := make([]string, len(c.baseURLs))
	for i, base := range c.baseURLs {
		out[i] = base + "/country?" + params.Encode()
	}
	return out
}

// Indicator returns the yearly observations of one indicator for one
// country within [start, end], ascending by year.
func (c *Client) Indicator(ctx context.Context, country, indicator string, start, end int) ([]domain.IndicatorRecord, error) {
	window := domain.YearBounds{Min: max(start, c.bounds.Min), Max: min(end, c.bounds.Max)}
	parse := func(p normalize.Payload) ([]domain.IndicatorRecord, error) {
		return normalize.WorldBankIndicators(p, window)
	}
	return probe.Probe(ctx, c.prober, c.IndicatorURLs(country, indicator, start, end), parse)
}

// Countries returns the sovereign countries known to the World Bank, sorted by name.
func (c *Client) Countries(ctx context.Context) ([]domain.CountrySummary, error) {
	return probe.Probe(ctx, c.prober, c.CountryURLs(), normalize.WorldBankCountries)
}

func indicatorKey(country, indicator string, start, end int) string {
	return "ind:" + country + "|" + indicator + "|" + strconv.Itoa(start) + "|" + strconv.Itoa(end)
}
