package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable marks a single failed candidate endpoint.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrExhaustedSources means every candidate for a logical query failed.
	ErrExhaustedSources = errors.New("all sources exhausted")

	// ErrNoOverlap means two series share no common year.
	ErrNoOverlap = errors.New("no data for this combination")

	// ErrNoData means a trend query found no records from any source.
	ErrNoData = errors.New("no data available for the selected parameters")

	// ErrInvalidSelection is matched by every InvalidSelectionError.
	ErrInvalidSelection = errors.New("invalid selection")
)

// InvalidSelectionError reports user parameters that cannot form a valid query.
type InvalidSelectionError struct {
	Field  string
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidSelection) match any selection error.
func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

func invalid(field, format string, args ...any) error {
	return &InvalidSelectionError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
