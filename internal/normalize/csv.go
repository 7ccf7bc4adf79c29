package normalize

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Row is one flat record keyed by canonical (lower-cased, underscored) field name.
type Row map[string]any

// canonicalKey lower-cases a header and replaces runs of spaces with underscores.
func canonicalKey(k string) string {
	return strings.Join(strings.Fields(strings.ToLower(k)), "_")
}

// ParseCSV reads a header line followed by data rows. Rows whose field count
// differs from the header are dropped. A UTF-8 byte order mark is stripped.
func ParseCSV(data []byte) ([]Row, error) {
	src := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: csv header: %v", ErrMalformed, err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = canonicalKey(h)
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("%w: csv: %v", ErrMalformed, err)
		}
		if len(rec) != len(keys) {
			continue
		}
		row := make(Row, len(keys))
		for i, k := range keys {
			row[k] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
