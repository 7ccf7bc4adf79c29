// Package stats aligns yearly series and measures their linear association.
package stats

import (
	"sort"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
)

// Aligned holds two series reduced to their common years.
// Years, A and B always have equal length and matching order.
type Aligned struct {
	Years []int     `json:"years"`
	A     []float64 `json:"a"`
	B     []float64 `json:"b"`
}

// Empty reports whether the two series shared no year.
func (a Aligned) Empty() bool {
	return len(a.Years) == 0
}

// Align intersects the years of two series and returns the matching values in
// ascending year order. When a year occurs more than once in a series the
// first occurrence wins. Disjoint series yield an empty Aligned, not an error.
func Align(a, b []domain.SeriesPoint) Aligned {
	firstA := firstByYear(a)
	firstB := firstByYear(b)

	years := make([]int, 0, len(firstA))
	for year := range firstA {
		if _, ok := firstB[year]; ok {
			years = append(years, year)
		}
	}
	sort.Ints(years)

	out := Aligned{
		Years: years,
		A:     make([]float64, len(years)),
		B:     make([]float64, len(years)),
	}
	for i, year := range years {
		out.A[i] = firstA[year]
		out.B[i] = firstB[year]
	}
	return out
}

func firstByYear(points []domain.SeriesPoint) map[int]float64 {
	m := make(map[int]float64, len(points))
	for _, p := range points {
		if _, seen := m[p.Year]; !seen {
			m[p.Year] = p.Value
		}
	}
	return m
}
