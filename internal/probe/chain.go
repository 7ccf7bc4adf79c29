package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Attempt is one named step of a fallback chain.
type Attempt[T any] struct {
	Name string
	Run  func(context.Context) (T, error)
}

// FirstSuccess runs attempts in order and returns the first value produced
// without error, along with the name of the attempt that produced it. If all
// attempts fail the joined errors are returned.
func FirstSuccess[T any](ctx context.Context, logger *slog.Logger, attempts ...Attempt[T]) (T, string, error) {
	var zero T
	var errs []error
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}
		v, err := a.Run(ctx)
		if err == nil {
			if len(errs) > 0 {
				logger.Info("fallback used", "step", a.Name, "failed_steps", len(errs))
			}
			return v, a.Name, nil
		}
		logger.Debug("fallback step failed", "step", a.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
	}
	if len(errs) == 0 {
		return zero, "", errors.New("no attempts")
	}
	return zero, "", errors.Join(errs...)
}
