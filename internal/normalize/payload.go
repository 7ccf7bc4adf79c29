// Package normalize turns heterogeneous upstream responses into the canonical
// record shapes of the domain package.
//
// Responses are classified once at the boundary by [Sniff] into a [Payload]
// tagged union (array, single object, or CSV text). Each normalizer then
// dispatches on the tag instead of re-inspecting raw bytes.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a payload cannot be interpreted at all.
var ErrMalformed = errors.New("malformed payload")

// Kind tags the shape of a Payload.
type Kind int

const (
	KindUnknown Kind = iota
	KindArray
	KindSingle
	KindCSV
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindSingle:
		return "single"
	case KindCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Payload is a response classified by shape. Exactly one of Array, Single or
// CSV is populated, according to Kind.
type Payload struct {
	Kind   Kind
	Array  []json.RawMessage
	Single map[string]json.RawMessage
	CSV    []byte
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sniff classifies a response body. A CSV content type wins; otherwise the
// first significant byte decides between JSON array and object, and anything
// that looks like delimited text with a header line is treated as CSV.
func Sniff(contentType string, body []byte) Payload {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
	if len(trimmed) == 0 {
		return Payload{Kind: KindUnknown}
	}

	if strings.Contains(strings.ToLower(contentType), "csv") {
		return Payload{Kind: KindCSV, CSV: body}
	}

	switch trimmed[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err == nil {
			return Payload{Kind: KindArray, Array: arr}
		}
		return Payload{Kind: KindUnknown}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			return Payload{Kind: KindSingle, Single: obj}
		}
		return Payload{Kind: KindUnknown}
	}

	if looksLikeCSV(trimmed) {
		return Payload{Kind: KindCSV, CSV: body}
	}
	return Payload{Kind: KindUnknown}
}

// looksLikeCSV requires a comma-separated header line followed by at least one row.
func looksLikeCSV(b []byte) bool {
	header, rest, found := bytes.Cut(b, []byte("\n"))
	return found && bytes.Contains(header, []byte(",")) && len(bytes.TrimSpace(rest)) > 0
}

// Rows flattens any payload into generic rows keyed by field name.
//
//   - KindArray: every element must be a JSON object.
//   - KindSingle: an envelope holding a row list under one of the envelope
//     keys (see Envelopes) is unwrapped; otherwise the object is one row.
//   - KindCSV: parsed by ParseCSV.
func Rows(p Payload) ([]Row, error) {
	switch p.Kind {
	case KindArray:
		return objectRows(p.Array)
	case KindSingle:
		for _, key := range Envelopes {
			raw, ok := p.Single[key]
			if !ok {
				continue
			}
			var arr []json.RawMessage
			if err := json.Unmarshal(raw, &arr); err == nil {
				return objectRows(arr)
			}
		}
		row, err := decodeRow(p.Single)
		if err != nil {
			return nil, err
		}
		return []Row{row}, nil
	case KindCSV:
		return ParseCSV(p.CSV)
	default:
		return nil, ErrMalformed
	}
}

func objectRows(arr []json.RawMessage) ([]Row, error) {
	rows := make([]Row, 0, len(arr))
	for i, raw := range arr {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformed, i)
		}
		row, err := decodeRow(obj)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(obj map[string]json.RawMessage) (Row, error) {
	row := make(Row, len(obj))
	for k, raw := range obj {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrMalformed, k, err)
		}
		row[canonicalKey(k)] = v
	}
	return row, nil
}
