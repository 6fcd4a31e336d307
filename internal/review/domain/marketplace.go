package domain

import "strings"

// countryMarketplaces maps ISO 3166-1 alpha-2 country codes to the
// marketplace a review from that country is attributed to.
var countryMarketplaces = map[string]string{
	"US": "amazon.com",
	"CA": "amazon.ca",
	"MX": "amazon.com.mx",
	"BR": "amazon.com.br",
	"GB": "amazon.co.uk",
	"DE": "amazon.de",
	"FR": "amazon.fr",
	"IT": "amazon.it",
	"ES": "amazon.es",
	"NL": "amazon.nl",
	"SE": "amazon.se",
	"PL": "amazon.pl",
	"BE": "amazon.com.be",
	"TR": "amazon.com.tr",
	"AE": "amazon.ae",
	"SA": "amazon.sa",
	"EG": "amazon.eg",
	"IN": "amazon.in",
	"JP": "amazon.co.jp",
	"SG": "amazon.sg",
	"AU": "amazon.com.au",
}

// MarketplaceForCountry resolves a country code to its marketplace code.
func MarketplaceForCountry(country string) (string, bool) {
	m, ok := countryMarketplaces[strings.ToUpper(strings.TrimSpace(country))]
	return m, ok
}
