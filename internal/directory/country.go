package directory

import (
	"fmt"
	"strings"
)

// DefaultFlagURL is the flag image template; %s is the two-letter code.
const DefaultFlagURL = "https://flagcdn.com/48x36/%s.png"

// UnknownCountry is returned for codes missing from the table.
const UnknownCountry = "un"

var iso3to2 = map[string]string{
	"GBR": "gb", "ESP": "es", "MCO": "mc", "NLD": "nl", "MEX": "mx",
	"AUS": "au", "FIN": "fi", "FRA": "fr", "DEU": "de", "JPN": "jp",
	"CHN": "cn", "CAN": "ca", "THA": "th", "DNK": "dk", "USA": "us",
	"BRA": "br", "ITA": "it",
}

// CountryISO2 maps a three-letter country code to the two-letter code used
// by the flag provider, or UnknownCountry.
func CountryISO2(code string) string {
	if iso2, ok := iso3to2[strings.ToUpper(code)]; ok {
		return iso2
	}
	return UnknownCountry
}

// FlagURL formats template with the two-letter code for code.
func FlagURL(template, code string) string {
	if template == "" {
		template = DefaultFlagURL
	}
	return fmt.Sprintf(template, CountryISO2(code))
}

// TeamColor returns the team colour as a "#RRGGBB" string, or a dark grey
// when upstream sent none.
func TeamColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if hex == "" {
		return "#333"
	}
	return "#" + hex
}
