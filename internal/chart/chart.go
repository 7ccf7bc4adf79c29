// Package chart shapes dashboard results into the series the presentation
// layer plots: line points, scatter pairs and coloured bars.
package chart

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
)

// Point is one (year, value) sample of a line chart.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// XY is one scatter plot sample.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bar is one labelled bar with its fill colour.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Palette is the bar fill cycle.
var Palette = []string{
	"rgba(102, 126, 234, 0.8)",
	"rgba(245, 87, 108, 0.8)",
	"rgba(67, 233, 123, 0.8)",
	"rgba(255, 193, 7, 0.8)",
	"rgba(79, 172, 254, 0.8)",
	"rgba(156, 39, 176, 0.8)",
	"rgba(255, 87, 34, 0.8)",
	"rgba(0, 188, 212, 0.8)",
}

// Colors returns n fills, cycling through Palette.
func Colors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = Palette[i%len(Palette)]
	}
	return out
}

// Line converts a series into line chart points.
func Line(series []domain.SeriesPoint) []Point {
	out := make([]Point, len(series))
	for i, p := range series {
		out[i] = Point{Year: p.Year, Value: p.Value}
	}
	return out
}

// LineFromValues pairs years with values position by position. Extra
// entries on either side are ignored.
func LineFromValues(years []int, values []float64) []Point {
	n := min(len(years), len(values))
	out := make([]Point, n)
	for i := range n {
		out[i] = Point{Year: years[i], Value: values[i]}
	}
	return out
}

// Scatter pairs xs with ys position by position.
func Scatter(xs, ys []float64) []XY {
	n := min(len(xs), len(ys))
	out := make([]XY, n)
	for i := range n {
		out[i] = XY{X: xs[i], Y: ys[i]}
	}
	return out
}

// Bars builds coloured bars from parallel labels and values.
func Bars(labels []string, values []float64) []Bar {
	n := min(len(labels), len(values))
	colors := Colors(n)
	out := make([]Bar, n)
	for i := range n {
		out[i] = Bar{Label: labels[i], Value: values[i], Color: colors[i]}
	}
	return out
}

// DefaultDecimals is the precision FormatNumber uses when asked for a
// negative number of decimals.
const DefaultDecimals = 2

// FormatNumber renders v with a fixed number of decimals and no grouping.
func FormatNumber(v float64, decimals int) string {
	if decimals < 0 {
		decimals = DefaultDecimals
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatOptional is FormatNumber for a value that may be missing.
func FormatOptional(v *float64, decimals int) string {
	if v == nil {
		return "N/A"
	}
	return FormatNumber(*v, decimals)
}

var printer = message.NewPrinter(language.English)

// FormatGrouped renders v with thousands separators and up to maxDecimals
// fraction digits, as used for currency-sized indicator values.
func FormatGrouped(v float64, maxDecimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(maxDecimals)))
}
