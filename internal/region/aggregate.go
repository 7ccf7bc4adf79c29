// Package region groups country scores into the fixed region table and
// summarizes them.
package region

import (
	"sort"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/stats"
)

type accumulator struct {
	sum      float64
	count    int
	top      string
	topScore float64
}

// Aggregate computes the mean score, member count and top country of each
// region. A code listed under several regions belongs to the first by
// sorted name; a code repeated in records counts once, first record wins.
// Regions with no matching records are omitted. Ties for top country go to
// the member seen first in records.
func Aggregate(records []domain.CountryScore, regions map[string][]string) map[string]domain.RegionalAggregate {
	owner := domain.RegionOwners(regions)

	acc := make(map[string]*accumulator)
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.CountryCode]; dup {
			continue
		}
		seen[r.CountryCode] = struct{}{}

		name, ok := owner[r.CountryCode]
		if !ok {
			continue
		}
		a := acc[name]
		if a == nil {
			a = &accumulator{}
			acc[name] = a
		}
		if a.count == 0 || r.Score > a.topScore {
			a.top, a.topScore = r.CountryCode, r.Score
		}
		a.sum += r.Score
		a.count++
	}

	out := make(map[string]domain.RegionalAggregate, len(acc))
	for name, a := range acc {
		out[name] = domain.RegionalAggregate{
			RegionName:   name,
			AverageScore: a.sum / float64(a.count),
			CountryCount: a.count,
			TopCountry:   a.top,
		}
	}
	return out
}

// Ordered lists aggregates in the display order of domain.RegionList,
// followed by any other regions sorted by name.
func Ordered(aggs map[string]domain.RegionalAggregate) []domain.RegionalAggregate {
	out := make([]domain.RegionalAggregate, 0, len(aggs))
	listed := make(map[string]struct{}, len(domain.RegionList))
	for _, r := range domain.RegionList {
		listed[r.Name] = struct{}{}
		if a, ok := aggs[r.Name]; ok {
			out = append(out, a)
		}
	}

	var extra []string
	for name := range aggs {
		if _, ok := listed[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, aggs[name])
	}
	return out
}

// Insights summarizes a within-region comparison: the highest scorer, the
// mean (2 decimals) and the spread between highest and lowest (1 decimal).
// It reports false for an empty list.
func Insights(performers []domain.TopPerformer) (domain.RegionInsights, bool) {
	if len(performers) == 0 {
		return domain.RegionInsights{}, false
	}

	top, low := performers[0], performers[0]
	sum := 0.0
	for _, p := range performers {
		if p.Score > top.Score {
			top = p
		}
		if p.Score < low.Score {
			low = p
		}
		sum += p.Score
	}

	return domain.RegionInsights{
		TopCountry:   top.Country,
		TopScore:     top.Score,
		AverageScore: stats.Round(sum/float64(len(performers)), 2),
		Gap:          stats.Round(top.Score-low.Score, 1),
	}, true
}
