package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"fleet_scraper/internal/models"
)

// Rule derives a single optional value from a page's text
type Rule func(text string) (string, bool)

// Year bounds accepted as a plausible model year
const (
	MinYear = 1950
	MaxYear = 2030
)

// amount allows thousands separators and an optional two-digit fraction
const amount = `(\d+(?:,\d{3})*(?:\.\d{2})?)`

// space matches any Unicode space, so &nbsp; separators count as whitespace
const space = `[\s\p{Z}\x{FEFF}]`

// label is the run of colons and spaces between a label and its value
const label = `[:\s\p{Z}\x{FEFF}]+`

// PriceRules are tried in order; each yields the hourly rate as a floored integer string
var PriceRules = []Rule{
	priceRule(regexp.MustCompile(`(?i)\$` + amount + space + `*(?:/|per)` + space + `*hour`)),
	priceRule(regexp.MustCompile(`(?i)Rate` + label + `\$` + amount)),
	priceRule(regexp.MustCompile(`(?i)Hourly` + space + `+Rate` + label + `\$` + amount)),
	priceRule(regexp.MustCompile(`(?i)\$` + amount + space + `*/` + space + `*hr`)),
}

// YearRules are tried in order; each yields a year within [MinYear, MaxYear]
var YearRules = []Rule{
	labeledYearRule(regexp.MustCompile(`(?i)Year` + label + `(\d{4})`)),
	labeledYearRule(regexp.MustCompile(`(?i)Model` + space + `+Year` + label + `(\d{4})`)),
	anyYearRule(regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)),
}

// TypeRules detect the avionics variant
var TypeRules = []Rule{
	NXiRule,
}

// FirstMatch returns the value of the first rule that matches text
func FirstMatch(text string, rules []Rule) (string, bool) {
	for _, rule := range rules {
		if v, ok := rule(text); ok {
			return v, true
		}
	}
	return "", false
}

// NXiRule matches pages mentioning the NXi avionics suite in any case
func NXiRule(text string) (string, bool) {
	if strings.Contains(strings.ToLower(text), models.TypeNXi) {
		return models.TypeNXi, true
	}
	return "", false
}

func priceRule(pattern *regexp.Regexp) Rule {
	return func(text string) (string, bool) {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return "", false
		}
		return floorString(value), true
	}
}

// labeledYearRule only considers the first labeled occurrence
func labeledYearRule(pattern *regexp.Regexp) Rule {
	return func(text string) (string, bool) {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return validYear(m[1])
	}
}

// anyYearRule scans every candidate and skips out-of-range ones
func anyYearRule(pattern *regexp.Regexp) Rule {
	return func(text string) (string, bool) {
		for _, candidate := range pattern.FindAllString(text, -1) {
			if year, ok := validYear(candidate); ok {
				return year, true
			}
		}
		return "", false
	}
}

func validYear(s string) (string, bool) {
	year, err := strconv.Atoi(s)
	if err != nil || year < MinYear || year > MaxYear {
		return "", false
	}
	return strconv.Itoa(year), true
}

var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// parseLeadingFloat reads the numeric prefix of s, ignoring trailing garbage such as a currency code
func parseLeadingFloat(s string) (float64, bool) {
	prefix := leadingNumber.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

func floorString(value float64) string {
	return strconv.FormatFloat(math.Floor(value), 'f', 0, 64)
}
