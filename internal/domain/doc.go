// Package domain models country development indicators and happiness-index
// figures served to the wellbeing dashboard.
//
// # Data Sources
//
// Development indicators come from the World Bank Indicators API
// (https://api.worldbank.org/v2). Every response is a two-element JSON array:
//
//	[ {"page":1,"pages":1,"per_page":1000,"total":14}, [ {...}, {...} ] ]
//
// The first element is paging metadata and the second is the data page. Errors
// come back as a one-element array holding a "message" list, and empty results
// carry null as the data page. Indicator rows hold the year as a string in
// "date" and a nullable numeric "value"; nulls are gaps in the series, not
// zeros, and are dropped during normalization.
//
// The country endpoint mixes real countries with aggregates ("Euro area",
// "Low income"). Aggregates have an empty "capitalCity", which is the filter
// used to keep only countries.
//
// Happiness figures come from World Happiness Report mirrors whose schema is
// not stable: the same number appears as "happiness_score", "score",
// "ladder_score" or "Life Ladder", in JSON arrays, single objects or CSV. The
// normalize package owns the alias table; this package only sees the
// canonical shapes.
//
// # Year Bounds
//
// The dashboard works on 2010–2023 by default ([DefaultYearBounds]). Records
// outside the configured bounds are dropped rather than clamped, and a
// selection whose start year is after its end year is rejected before any
// network call is issued ([InvalidSelectionError]).
//
// # Regions
//
// [Regions] is a fixed partition of ISO3 codes into ten World Happiness Report
// regions. It is a build-time constant, never fetched. A code appears in at
// most one region; [ValidateRegionMap] enforces this for any map handed to the
// aggregator.
//
// # Failure Taxonomy
//
//	ErrSourceUnavailable  one candidate endpoint failed; the next is tried.
//	ErrExhaustedSources   every candidate failed; callers substitute mock data.
//	ErrNoOverlap          two series share no year; shown to the user.
//	ErrNoData             no indicator records at all for a trend.
//	InvalidSelectionError parameters that cannot describe a valid query.
package domain
