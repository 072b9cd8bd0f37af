// Package region maps ISO country codes to coarse gaming regions.
package region

import "strings"

// Bucket is a coarse gaming region derived from a profile's country code.
type Bucket struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Membership sets are checked in order; the first match wins. A few codes
// appear in more than one set (BY, MD, UA are in both CIS and EU), so the
// ordering here is load-bearing.
var buckets = []struct {
	code    string
	label   string
	members map[string]bool
}{
	{"BR", "Brazil (BR)", set("BR")},
	{"CIS", "CIS (Russia, Ukraine, nearby states)",
		set("RU", "UA", "BY", "KZ", "AM", "AZ", "GE", "MD", "KG", "TJ", "TM", "UZ")},
	{"NA", "North America (NA)", set("US", "CA", "MX")},
	{"LATAM", "Latin America (LATAM)",
		set("AR", "BO", "CL", "CO", "CR", "CU", "DO", "EC", "SV", "GT", "HN", "NI",
			"PA", "PY", "PE", "PR", "UY", "VE", "GY", "SR", "BZ")},
	{"MENA", "Middle East & North Africa (MENA)",
		set("AE", "BH", "DZ", "EG", "IL", "IQ", "IR", "JO", "KW", "LB", "LY", "MA",
			"OM", "PS", "QA", "SA", "SD", "SY", "TN", "TR", "YE")},
	{"EU", "Europe (EU)",
		set("AL", "AD", "AT", "BA", "BE", "BG", "BY", "CH", "CY", "CZ", "DE", "DK",
			"EE", "ES", "FI", "FR", "GB", "GR", "HR", "HU", "IE", "IS", "IT", "LI",
			"LT", "LU", "LV", "MC", "MD", "ME", "MK", "MT", "NL", "NO", "PL", "PT",
			"RO", "RS", "SE", "SI", "SK", "SM", "UA", "VA")},
	{"EA", "East Asia (EA)", set("JP", "KR", "CN", "TW", "HK", "MO")},
	{"APAC", "Asia-Pacific (APAC)",
		set("AU", "NZ", "SG", "PH", "TH", "VN", "MY", "ID", "BN", "KH", "LA", "MM",
			"IN", "PK", "BD", "LK", "NP", "MN")},
}

func set(codes ...string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}

// FromCountryCode returns the region bucket for a two-letter country code,
// or nil if the code is empty or unrecognized.
func FromCountryCode(cc string) *Bucket {
	c := strings.ToUpper(strings.TrimSpace(cc))
	if c == "" {
		return nil
	}
	for _, b := range buckets {
		if b.members[c] {
			return &Bucket{Code: b.code, Label: b.label}
		}
	}
	return nil
}
