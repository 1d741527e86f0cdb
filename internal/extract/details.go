package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"fleet_scraper/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// ExtractDetails parses one aircraft detail page.
// Fields no rule could find are left empty; a page with no recognised content yields
// zero-valued details, not an error.
func ExtractDetails(html, tailNumber string) (models.AircraftDetails, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.AircraftDetails{}, fmt.Errorf("failed to parse detail page for %s: %w", tailNumber, err)
	}

	text := doc.Text()
	var details models.AircraftDetails

	price, ok := FirstMatch(text, PriceRules)
	if !ok {
		price, ok = metaPrice(doc)
	}
	// a zero rate is treated the same as a missing one
	if ok && price != "0" {
		details.Price = "$" + price
	}

	if year, ok := FirstMatch(text, YearRules); ok {
		details.Year = year
	}

	if typ, ok := FirstMatch(text, TypeRules); ok {
		details.Type = typ
	}

	slog.Debug("Extracted aircraft details",
		"tail_number", tailNumber,
		"price", details.Price,
		"year", details.Year,
		"type", details.Type,
	)

	return details, nil
}

// metaPrice reads the product price annotation, if the page carries one
func metaPrice(doc *goquery.Document) (string, bool) {
	content, exists := doc.Find(PriceMetaSelector).First().Attr("content")
	if !exists || content == "" {
		return "", false
	}
	value, ok := parseLeadingFloat(content)
	if !ok {
		return "", false
	}
	return floorString(value), true
}
