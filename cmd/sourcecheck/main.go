// Command sourcecheck probes every configured upstream candidate for one
// country and indicator and reports which ones answered and how many records
// each normalized to. It reads the same environment as the dashboard.
//
// Usage:
//
//	go run ./cmd/sourcecheck -country IND -indicator NY.GDP.PCAP.CD -start 2015 -end 2023
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/happiness-data-service/internal/adapter/happiness"
	"github.com/couchcryptid/happiness-data-service/internal/adapter/worldbank"
	"github.com/couchcryptid/happiness-data-service/internal/config"
	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/normalize"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
	"github.com/couchcryptid/happiness-data-service/internal/probe"
)

// candidate is the result of probing one URL on its own.
type candidate struct {
	url     string
	records int
	err     error
}

// group tracks the candidates of one logical query.
type group struct {
	name       string
	candidates []candidate
}

func (g *group) passed() bool {
	for _, c := range g.candidates {
		if c.err == nil {
			return true
		}
	}
	return false
}

func main() {
	country := flag.String("country", "IND", "ISO3 country code")
	indicator := flag.String("indicator", domain.IndicatorGDPPerCapita, "World Bank indicator code")
	start := flag.Int("start", 0, "first year (default YEAR_MIN)")
	end := flag.Int("end", 0, "last year (default YEAR_MAX)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	if *start == 0 {
		*start = cfg.YearMin
	}
	if *end == 0 {
		*end = cfg.YearMax
	}

	os.Exit(run(cfg, *country, *indicator, *start, *end))
}

func run(cfg *config.Config, country, indicator string, start, end int) int {
	bounds := domain.YearBounds{Min: cfg.YearMin, Max: cfg.YearMax}
	code, err := domain.NormalizeCountryCode(country)
	if err == nil {
		indicator, err = domain.NormalizeIndicatorCode(indicator)
	}
	if err == nil {
		err = bounds.ValidateRange(start, end)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	fetcher := probe.NewHTTPFetcher(cfg.ProbeTimeout)
	wbProber := probe.NewProber("worldbank", fetcher, logger, metrics)
	hpProber := probe.NewProber("happiness", fetcher, logger, metrics)
	wb := worldbank.NewClient(cfg.WorldBankBaseURLs, wbProber, bounds)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println("=== Upstream Source Check ===")
	fmt.Printf("country=%s indicator=%s years=%d-%d\n\n", code, indicator, start, end)

	window := domain.YearBounds{Min: start, Max: end}
	groups := []*group{
		checkAll(ctx, "World Bank indicator", wbProber, wb.IndicatorURLs(code, indicator, start, end),
			func(p normalize.Payload) ([]domain.IndicatorRecord, error) {
				return normalize.WorldBankIndicators(p, window)
			}),
		checkAll(ctx, "World Bank countries", wbProber, wb.CountryURLs(), normalize.WorldBankCountries),
		checkAll(ctx, "Happiness series", hpProber,
			happiness.Expand(cfg.HappinessEndpoints, code, end, start, end), normalize.ScoreRecords),
		checkAll(ctx, "Happiness ranking", hpProber,
			happiness.Expand(cfg.RankingEndpoints, "", end, end, end), normalize.ScoreRecords),
	}

	allPassed := true
	for _, g := range groups {
		status := "\033[32mLIVE\033[0m"
		if !g.passed() {
			status = "\033[31mEXHAUSTED (mock fallback)\033[0m"
			allPassed = false
		}
		fmt.Printf("  %-28s %s\n", g.name, status)
		for i, c := range g.candidates {
			if c.err != nil {
				fmt.Printf("    [%d] FAIL %s\n        %v\n", i+1, c.url, c.err)
				continue
			}
			fmt.Printf("    [%d] OK   %s (%d records)\n", i+1, c.url, c.records)
		}
	}

	if allPassed {
		fmt.Println("\nEvery query has a live source.")
		return 0
	}
	fmt.Println("\nSome queries will be served from mock data.")
	return 1
}

// checkAll probes each candidate on its own so every one is reported, not
// just the first to succeed.
func checkAll[T any](ctx context.Context, name string, p *probe.Prober, urls []string, parse probe.ParseFunc[T]) *group {
	g := &group{name: name}
	for _, u := range urls {
		records, err := probe.Probe(ctx, p, []string{u}, parse)
		g.candidates = append(g.candidates, candidate{url: u, records: len(records), err: err})
	}
	return g
}
