package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryISO2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GBR", "gb"},
		{"NLD", "nl"},
		{"MCO", "mc"},
		{"THA", "th"},
		{"ITA", "it"},
		{"gbr", "gb"},
		{"NED", UnknownCountry},
		{"XYZ", UnknownCountry},
		{"", UnknownCountry},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountryISO2(tt.in), "CountryISO2(%q)", tt.in)
	}
}

func TestCountryISO2Total(t *testing.T) {
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			for c := 'A'; c <= 'Z'; c++ {
				got := CountryISO2(string([]rune{a, b, c}))
				assert.Len(t, got, 2)
			}
		}
	}
}

func TestFlagURL(t *testing.T) {
	assert.Equal(t, "https://flagcdn.com/48x36/gb.png", FlagURL(DefaultFlagURL, "GBR"))
	assert.Equal(t, "https://flagcdn.com/48x36/un.png", FlagURL("", "NED"))
	assert.Equal(t, "https://flags.example/es.svg", FlagURL("https://flags.example/%s.svg", "ESP"))
}

func TestTeamColor(t *testing.T) {
	assert.Equal(t, "#3671C6", TeamColor("3671C6"))
	assert.Equal(t, "#3671C6", TeamColor("#3671C6"))
	assert.Equal(t, "#333", TeamColor(""))
}
