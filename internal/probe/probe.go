package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/normalize"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
)

// Attempt outcomes, used as the metrics "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeHTTPError    = "http_error"
	OutcomeNetworkError = "network_error"
	OutcomeParseError   = "parse_error"
	OutcomeEmpty        = "empty"
)

// errEmpty means a candidate answered but normalization produced no records.
var errEmpty = errors.New("no records")

// ParseFunc normalizes a classified payload into records.
type ParseFunc[T any] func(normalize.Payload) ([]T, error)

// Prober runs candidate lists for one upstream source.
type Prober struct {
	source  string
	fetcher Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewProber creates a prober. source names the upstream in logs and metrics.
func NewProber(source string, fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics) *Prober {
	return &Prober{
		source:  source,
		fetcher: fetcher,
		logger:  logger.With("source", source),
		metrics: metrics,
	}
}

// Source returns the upstream name.
func (p *Prober) Source() string { return p.source }

// Probe tries candidates strictly in order and returns the records of the
// first one that answers 2xx and normalizes to at least one record. Failed
// candidates are not retried. When every candidate fails the error wraps
// domain.ErrExhaustedSources together with each domain.ErrSourceUnavailable
// cause. Cancellation of ctx stops the walk and returns ctx.Err().
func Probe[T any](ctx context.Context, p *Prober, candidates []string, parse ParseFunc[T]) ([]T, error) {
	var errs []error
	for i, url := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		records, outcome, err := attempt(ctx, p.fetcher, url, parse)
		p.metrics.ProbeDuration.WithLabelValues(p.source).Observe(time.Since(start).Seconds())
		p.metrics.ProbeAttempts.WithLabelValues(p.source, outcome).Inc()

		if err == nil {
			p.logger.Debug("candidate succeeded", "attempt", i+1, "url", url, "records", len(records))
			return records, nil
		}

		p.logger.Warn("candidate failed", "attempt", i+1, "url", url, "outcome", outcome, "error", err)
		errs = append(errs, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, url, err))
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s: no candidates configured", domain.ErrExhaustedSources, p.source)
	}
	return nil, fmt.Errorf("%w: %s: %w", domain.ErrExhaustedSources, p.source, errors.Join(errs...))
}

func attempt[T any](ctx context.Context, f Fetcher, url string, parse ParseFunc[T]) ([]T, string, error) {
	payload, err := f.Fetch(ctx, url)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return nil, OutcomeHTTPError, err
		}
		return nil, OutcomeNetworkError, err
	}

	records, err := parse(payload)
	if err != nil {
		return nil, OutcomeParseError, err
	}
	if len(records) == 0 {
		return nil, OutcomeEmpty, errEmpty
	}
	return records, OutcomeSuccess, nil
}
