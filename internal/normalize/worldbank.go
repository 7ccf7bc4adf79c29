package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
)

type wbRef struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type wbObservation struct {
	Indicator       wbRef  `json:"indicator"`
	Country         wbRef  `json:"country"`
	CountryISO3Code string `json:"countryiso3code"`
	Date            string `json:"date"`
	Value           any    `json:"value"`
}

type wbCountry struct {
	ID          string `json:"id"`
	ISO2Code    string `json:"iso2Code"`
	Name        string `json:"name"`
	Region      wbRef  `json:"region"`
	CapitalCity string `json:"capitalCity"`
}

// worldBankData unwraps the [metadata, data[]] envelope. A World Bank error
// response is a one-element array holding only a message object.
func worldBankData(p Payload) ([]json.RawMessage, error) {
	if p.Kind != KindArray {
		return nil, fmt.Errorf("%w: expected world bank envelope, got %s", ErrMalformed, p.Kind)
	}
	if len(p.Array) < 2 {
		return nil, fmt.Errorf("%w: world bank envelope has %d elements", ErrMalformed, len(p.Array))
	}
	if string(p.Array[1]) == "null" {
		return nil, nil
	}
	var data []json.RawMessage
	if err := json.Unmarshal(p.Array[1], &data); err != nil {
		return nil, fmt.Errorf("%w: world bank data: %v", ErrMalformed, err)
	}
	return data, nil
}

// WorldBankIndicators normalizes an indicator response. Values are coerced
// with Number, so numeric strings are accepted. Observations that do not
// decode, null or non-numeric values, and years outside bounds are dropped one
// record at a time. Records come back in ascending year order.
func WorldBankIndicators(p Payload, bounds domain.YearBounds) ([]domain.IndicatorRecord, error) {
	data, err := worldBankData(p)
	if err != nil {
		return nil, err
	}

	records := make([]domain.IndicatorRecord, 0, len(data))
	for _, raw := range data {
		var obs wbObservation
		if err := json.Unmarshal(raw, &obs); err != nil {
			continue
		}
		value, ok := Number(obs.Value)
		if !ok {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(obs.Date))
		if err != nil || !bounds.Contains(year) {
			continue
		}
		code := obs.CountryISO3Code
		if code == "" {
			code = obs.Country.ID
		}
		records = append(records, domain.IndicatorRecord{
			Year:          year,
			Value:         value,
			CountryCode:   code,
			CountryName:   obs.Country.Value,
			IndicatorCode: obs.Indicator.ID,
			IndicatorName: obs.Indicator.Value,
		})
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records, nil
}

// WorldBankCountries normalizes the country list. Aggregates such as
// "World" or "Euro area" have no capital city and are dropped. The result is
// sorted by name using English collation.
func WorldBankCountries(p Payload) ([]domain.CountrySummary, error) {
	data, err := worldBankData(p)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(data))
	out := make([]domain.CountrySummary, 0, len(data))
	for _, raw := range data {
		var c wbCountry
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: world bank country: %v", ErrMalformed, err)
		}
		if strings.TrimSpace(c.CapitalCity) == "" || c.ID == "" {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		region := strings.TrimSpace(c.Region.Value)
		if region == "" {
			region = "Other"
		}
		out = append(out, domain.CountrySummary{Code: c.ID, Name: c.Name, Region: region})
	}

	SortCountries(out)
	return out, nil
}

// SortCountries orders countries by name with locale-aware collation.
func SortCountries(cs []domain.CountrySummary) {
	col := collate.New(language.English, collate.Loose)
	sort.SliceStable(cs, func(i, j int) bool {
		return col.CompareString(cs[i].Name, cs[j].Name) < 0
	})
}
