// Command genmock writes the mock provider's tables and a seeded synthetic
// happiness series as a JSON fixture, so presentation-layer work can run
// without reaching any upstream.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/dashboard_fixture.json -seed 42
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/mock"
	"github.com/couchcryptid/happiness-data-service/internal/region"
)

// fixture is the document written to -out.
type fixture struct {
	GeneratedAt         time.Time                                   `json:"generated_at"`
	Seed                uint64                                      `json:"seed"`
	Countries           []domain.CountrySummary                     `json:"countries"`
	ComparatorCountries []domain.CountrySummary                     `json:"comparator_countries"`
	Happiness           map[string]domain.HappinessScore            `json:"happiness"`
	Regions             []domain.RegionalAggregate                  `json:"regions"`
	Performers          map[string]map[string][]domain.TopPerformer `json:"performers"`
	Correlations        []domain.CorrelationResult                  `json:"correlations"`
	Series              map[string][]domain.SeriesPoint             `json:"series"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the JSON fixture")
	seed := flag.Uint64("seed", 42, "seed for the synthetic happiness series")
	start := flag.Int("start", domain.DefaultYearBounds.Min, "first year of synthetic series")
	end := flag.Int("end", domain.DefaultYearBounds.Max, "last year of synthetic series")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := domain.DefaultYearBounds.ValidateRange(*start, *end); err != nil {
		return err
	}

	// Set a fixed clock for a reproducible generated_at stamp.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	f := build(*seed, *start, *end)
	f.GeneratedAt = domain.Now()
	if err := writeJSON(*out, f); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(f)
	return nil
}

func build(seed uint64, start, end int) fixture {
	rng := rand.New(rand.NewPCG(seed, seed))

	f := fixture{
		Seed:                seed,
		Countries:           mock.Countries(),
		ComparatorCountries: mock.ComparatorCountries(),
		Happiness:           map[string]domain.HappinessScore{},
		Regions:             region.Ordered(mock.RegionalSummaries()),
		Performers:          map[string]map[string][]domain.TopPerformer{},
		Correlations:        mock.IndicatorCorrelations(mock.ReferenceCountry),
		Series:              map[string][]domain.SeriesPoint{},
	}

	for _, s := range mock.HappinessScores() {
		f.Happiness[s.CountryCode] = mock.HappinessScore(s.CountryCode)
		// Series are drawn in table order so a seed always yields the same file.
		f.Series[s.CountryCode] = mock.HappinessSeries(rng, s.Score, start, end)
	}

	for _, r := range domain.RegionList {
		byMetric := map[string][]domain.TopPerformer{}
		for _, metric := range []string{mock.MetricHappiness, mock.MetricGDP} {
			byMetric[metric] = mock.TopPerformers(r.Key, metric)
		}
		f.Performers[r.Key] = byMetric
	}
	return f
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(f fixture) {
	points := 0
	for _, s := range f.Series {
		points += len(s)
	}
	fmt.Println("\n=== Fixture contents ===")
	fmt.Printf("Countries: %d (%d comparator)\n", len(f.Countries), len(f.ComparatorCountries))
	fmt.Printf("Happiness scores: %d\n", len(f.Happiness))
	fmt.Printf("Regions: %d\n", len(f.Regions))
	fmt.Printf("Performer tables: %d\n", len(f.Performers))
	fmt.Printf("Correlations (%s): %d\n", mock.ReferenceCountry, len(f.Correlations))
	fmt.Printf("Synthetic series: %d countries, %d points\n", len(f.Series), points)
}
