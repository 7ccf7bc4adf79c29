package stats

import (
	"fmt"
	"math"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
)

// Pearson returns the Pearson correlation coefficient of xs and ys:
//
//	r = (nΣxy − ΣxΣy) / sqrt((nΣx² − (Σx)²)(nΣy² − (Σy)²))
//
// Degenerate input returns 0 rather than an error: mismatched lengths, empty
// input, and a zero denominator (either series has no variance) all yield 0.
// Callers cannot tell "no correlation" from "could not compute"; check the
// inputs first if the difference matters.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		x, y := xs[i], ys[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}

	fn := float64(n)
	numerator := fn*sumXY - sumX*sumY
	denominator := math.Sqrt((fn*sumX2 - sumX*sumX) * (fn*sumY2 - sumY*sumY))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}

	r := numerator / denominator
	// Rounding can push a perfect correlation a hair past ±1.
	return math.Max(-1, math.Min(1, r))
}

// Strength labels |r|: Strong above 0.7, Moderate above 0.4, otherwise Weak.
func Strength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs > 0.7:
		return "Strong"
	case abs > 0.4:
		return "Moderate"
	default:
		return "Weak"
	}
}

// Describe renders a sentence such as "Moderate negative correlation".
func Describe(r float64) string {
	return fmt.Sprintf("%s %s correlation", Strength(r), domain.TrendOf(r))
}

// Correlate builds a CorrelationResult for an indicator aligned against happiness.
func Correlate(label string, aligned Aligned) domain.CorrelationResult {
	r := Pearson(aligned.A, aligned.B)
	return domain.CorrelationResult{
		IndicatorLabel: label,
		Coefficient:    r,
		Trend:          domain.TrendOf(r),
		Description:    Describe(r),
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
