package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Canonical field names produced by the alias table.
const (
	FieldScore       = "score"
	FieldYear        = "year"
	FieldCountryCode = "country_code"
	FieldRank        = "rank"
)

// Aliases lists, per canonical field, the source keys to try in order. The
// first key present with a usable value wins.
var Aliases = map[string][]string{
	FieldScore:       {"happiness_score", "score", "ladder_score", "life_ladder", "value"},
	FieldYear:        {"year", "date"},
	FieldCountryCode: {"country_code", "iso3", "code", "iso_alpha3"},
	FieldRank:        {"rank", "happiness_rank", "overall_rank"},
}

// Envelopes are the object keys under which a source may wrap its row list.
var Envelopes = []string{"data", "results", "records"}

// Lookup resolves a canonical field through the alias table.
func (r Row) Lookup(field string) (any, bool) {
	keys, ok := Aliases[field]
	if !ok {
		keys = []string{field}
	}
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

// Number coerces a JSON or CSV value to float64. NaN and infinities are
// rejected.
func Number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		var err error
		if f, err = t.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(t), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String coerces a scalar value to its string form.
func String(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Year coerces a year-like value. Dates such as "2019-01-01" keep their year.
func Year(v any) (int, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if len(s) > 4 && (s[4] == '-' || s[4] == '/') {
			s = s[:4]
		}
		y, err := strconv.Atoi(s)
		return y, err == nil
	}
	f, ok := Number(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
