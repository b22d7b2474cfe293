package services

import "strings"

// countryCodeMap maps English and Swedish country names to ISO 3166-1 alpha-2
// codes for the payment gateway.
var countryCodeMap = map[string]string{
	"sweden":         "SE",
	"sverige":        "SE",
	"united states":  "US",
	"usa":            "US",
	"united kingdom": "GB",
	"uk":             "GB",
	"norway":         "NO",
	"norge":          "NO",
	"denmark":        "DK",
	"danmark":        "DK",
	"finland":        "FI",
	"germany":        "DE",
	"france":         "FR",
	"spain":          "ES",
	"italy":          "IT",
}

// CountryCode maps a country name to its ISO 3166-1 alpha-2 code. Unmapped
// names fall back to the upper-cased first two characters of the input; the
// gateway relies on this exact behavior, so it must not change even though it
// can produce wrong codes for unmapped countries.
func CountryCode(country string) string {
	normalized := strings.ToLower(strings.TrimSpace(country))
	if code, ok := countryCodeMap[normalized]; ok {
		return code
	}
	upper := strings.ToUpper(normalized)
	if len(upper) > 2 {
		upper = upper[:2]
	}
	return upper
}
