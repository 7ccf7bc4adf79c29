package normalize

import (
	"sort"
	"strings"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
)

// ScoreRecord is a happiness row after alias resolution.
type ScoreRecord struct {
	CountryCode string
	Year        int
	HasYear     bool
	Score       float64
	Rank        int
}

// ScoreRecords normalizes a happiness payload of any shape. Rows without a
// numeric score, or with a score outside the 0–10 ladder, are discarded.
// When every row carries a year the result is ordered ascending by year
// (stable); otherwise input order is kept.
func ScoreRecords(p Payload) ([]ScoreRecord, error) {
	rows, err := Rows(p)
	if err != nil {
		return nil, err
	}

	out := make([]ScoreRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := scoreRecord(row)
		if !ok {
			continue
		}
		out = append(out, rec)
	}

	for _, r := range out {
		if !r.HasYear {
			return out, nil
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func scoreRecord(row Row) (ScoreRecord, bool) {
	raw, ok := row.Lookup(FieldScore)
	if !ok {
		return ScoreRecord{}, false
	}
	score, ok := Number(raw)
	if !ok || score < 0 || score > 10 {
		return ScoreRecord{}, false
	}

	rec := ScoreRecord{Score: score}
	if v, ok := row.Lookup(FieldCountryCode); ok {
		if s, ok := String(v); ok {
			rec.CountryCode = strings.ToUpper(s)
		}
	}
	if v, ok := row.Lookup(FieldYear); ok {
		rec.Year, rec.HasYear = Year(v)
	}
	if v, ok := row.Lookup(FieldRank); ok {
		if f, ok := Number(v); ok && f >= 1 {
			rec.Rank = int(f)
		}
	}
	return rec, true
}

// HappinessSeries keeps the year-bearing records of one country within
// bounds. An empty code matches every record.
func HappinessSeries(records []ScoreRecord, code string, bounds domain.YearBounds) []domain.SeriesPoint {
	var out []domain.SeriesPoint
	for _, r := range records {
		if !r.HasYear || !bounds.Contains(r.Year) {
			continue
		}
		if code != "" && r.CountryCode != "" && r.CountryCode != code {
			continue
		}
		out = append(out, domain.SeriesPoint{Year: r.Year, Value: r.Score})
	}
	return out
}

// CountryScores projects records that name a country onto aggregator input.
func CountryScores(records []ScoreRecord) []domain.CountryScore {
	out := make([]domain.CountryScore, 0, len(records))
	for _, r := range records {
		if r.CountryCode == "" {
			continue
		}
		out = append(out, domain.CountryScore{CountryCode: r.CountryCode, Score: r.Score})
	}
	return out
}
