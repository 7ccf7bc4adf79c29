package domain

import (
	"fmt"
	"sort"
)

// RegionInfo pairs a URL-safe region key with its display name.
type RegionInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// RegionList is the display order of the ten regions.
var RegionList = []RegionInfo{
	{Key: "western_europe", Name: "Western Europe"},
	{Key: "north_america", Name: "North America"},
	{Key: "australia_new_zealand", Name: "Australia and New Zealand"},
	{Key: "middle_east_north_africa", Name: "Middle East and North Africa"},
	{Key: "latin_america_caribbean", Name: "Latin America and Caribbean"},
	{Key: "central_eastern_europe", Name: "Central and Eastern Europe"},
	{Key: "east_asia", Name: "East Asia"},
	{Key: "southeast_asia", Name: "Southeast Asia"},
	{Key: "south_asia", Name: "South Asia"},
	{Key: "sub_saharan_africa", Name: "Sub-Saharan Africa"},
}

// Regions partitions ISO3 codes into World Happiness Report regions.
var Regions = map[string][]string{
	"Western Europe":               {"DNK", "CHE", "ISL", "NOR", "FIN", "NLD", "SWE", "AUT", "LUX", "DEU", "BEL", "GBR", "IRL", "FRA"},
	"North America":                {"USA", "CAN"},
	"Australia and New Zealand":    {"AUS", "NZL"},
	"Middle East and North Africa": {"ISR", "ARE", "SAU", "KWT", "BHR", "QAT", "JOR", "LBN", "MAR", "DZA", "TUN", "EGY"},
	"Latin America and Caribbean":  {"CRI", "URY", "CHL", "PAN", "BRA", "ARG", "MEX", "COL", "ECU", "PER", "PRY", "BOL"},
	"Central and Eastern Europe":   {"CZE", "SVN", "SVK", "POL", "LTU", "EST", "RUS", "LVA", "BGR", "HRV", "HUN", "ROU"},
	"East Asia":                    {"TWN", "JPN", "KOR", "CHN", "HKG", "SGP", "MNG"},
	"Southeast Asia":               {"THA", "PHL", "MYS", "VNM", "IDN", "LAO", "KHM"},
	"South Asia":                   {"NPL", "BTN", "LKA", "IND", "BGD", "PAK", "AFG"},
	"Sub-Saharan Africa":           {"MWI", "TZA", "RWA", "ETH", "KEN", "UGA", "GHA", "SEN", "NGA", "ZAF", "ZWE", "ZMB"},
}

// ComparatorCountryCodes are the countries offered by the happiness comparator.
var ComparatorCountryCodes = []string{
	"DNK", "CHE", "ISL", "FIN", "NLD", "NOR", "SWE", "LUX", "NZL", "AUT",
	"USA", "CAN", "GBR", "DEU", "FRA", "IND", "JPN",
}

// RegionByKey resolves a region key ("south_asia") or display name.
func RegionByKey(key string) (RegionInfo, bool) {
	for _, r := range RegionList {
		if r.Key == key || r.Name == key {
			return r, true
		}
	}
	return RegionInfo{}, false
}

// RegionOwners maps each country code to the region that owns it. A code
// listed under several regions belongs to the first by sorted name.
func RegionOwners(regions map[string][]string) map[string]string {
	owner := make(map[string]string)
	for _, name := range sortedRegionNames(regions) {
		for _, code := range regions[name] {
			if _, taken := owner[code]; !taken {
				owner[code] = name
			}
		}
	}
	return owner
}

// ValidateRegionMap checks that no country code is listed under two regions.
func ValidateRegionMap(regions map[string][]string) error {
	owner := make(map[string]string)
	for _, name := range sortedRegionNames(regions) {
		for _, code := range regions[name] {
			if prev, ok := owner[code]; ok && prev != name {
				return fmt.Errorf("country %s listed in both %q and %q", code, prev, name)
			}
			owner[code] = name
		}
	}
	return nil
}

func sortedRegionNames(regions map[string][]string) []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
