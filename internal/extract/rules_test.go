package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceRules_Order(t *testing.T) {
	// the "/hour" rule outranks the "Rate:" rule even when it appears later in the text
	price, ok := FirstMatch("Rate: $150 ... block time $170/hour", PriceRules)
	assert.True(t, ok)
	assert.Equal(t, "170", price)
}

func TestPriceRules_NoMatch(t *testing.T) {
	_, ok := FirstMatch("Pricing available on request", PriceRules)
	assert.False(t, ok)
}

func TestYearRules(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "year label", text: "Year: 2004", want: "2004", wantOK: true},
		{name: "label without colon", text: "year 1979", want: "1979", wantOK: true},
		{name: "model year label", text: "Model Year: 1998", want: "1998", wantOK: true},
		{name: "label out of range falls through to scan", text: "Year: 1949 rebuilt 2012", want: "2012", wantOK: true},
		{name: "label preferred over earlier bare year", text: "Since 2001. Year: 2007", want: "2007", wantOK: true},
		{name: "out of range then in range", text: "1875 then 2015", want: "2015", wantOK: true},
		{name: "early century candidate skipped", text: "Founded 1925, built 2015", want: "2015", wantOK: true},
		{name: "above range", text: "Call 2099 or 2031", wantOK: false},
		{name: "digits inside a longer number", text: "Serial 172S11998", wantOK: false},
		{name: "none", text: "No dates here", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstMatch(tt.text, YearRules)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNXiRule(t *testing.T) {
	for _, text := range []string{"nxi", "NXi", "G1000 NXI upgrade"} {
		v, ok := NXiRule(text)
		assert.True(t, ok, text)
		assert.Equal(t, "nxi", v)
	}

	_, ok := NXiRule("Garmin G1000")
	assert.False(t, ok)
}

func TestParseLeadingFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "165", want: 165, wantOK: true},
		{in: " 165.75 ", want: 165.75, wantOK: true},
		{in: "12abc", want: 12, wantOK: true},
		{in: ".5", want: 0.5, wantOK: true},
		{in: "abc", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parseLeadingFloat(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFloorString(t *testing.T) {
	assert.Equal(t, "179", floorString(179.5))
	assert.Equal(t, "0", floorString(0.99))
	assert.Equal(t, "100000000000000000000", floorString(1e20))
}
