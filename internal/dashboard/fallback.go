package dashboard

import (
	"context"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/mock"
	"github.com/couchcryptid/happiness-data-service/internal/probe"
)

// withFallback runs the live query and, if it fails, the mock one. The only
// error returned is cancellation of ctx.
func withFallback[T any](ctx context.Context, s *Service, query string, live func(context.Context) (T, error), fallback func() T) (Sourced[T], error) {
	var liveErr error
	v, step, err := probe.FirstSuccess(ctx, s.logger,
		probe.Attempt[T]{Name: SourceLive, Run: func(ctx context.Context) (T, error) {
			v, err := live(ctx)
			liveErr = err
			return v, err
		}},
		probe.Attempt[T]{Name: SourceMock, Run: func(context.Context) (T, error) {
			return fallback(), nil
		}},
	)
	if err != nil {
		return Sourced[T]{}, err
	}
	if step == SourceMock {
		s.fellBack(query, liveErr)
	}
	return Sourced[T]{Data: v, Source: step}, nil
}

// syntheticSeries generates a mock happiness series around the country's
// tabled score.
func (s *Service) syntheticSeries(country string, start, end int) []domain.SeriesPoint {
	base := mock.HappinessScore(country).Score
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return mock.HappinessSeries(s.rng, base, start, end)
}
