package extract

import (
	"fmt"
	"regexp"
	"strings"

	"fleet_scraper/internal/models"

	"github.com/PuerkitoBio/goquery"
)

var tailNumberPattern = regexp.MustCompile(`^N[A-Z0-9]{3,6}$`)

// ExtractLinks finds the detail page links of the target category on the index page.
//
// An anchor qualifies when its trimmed text looks like a tail number and the nearest
// enclosing section mentions one of CategoryMarkers. Relative hrefs are appended to
// baseURL. When a tail number repeats, the link keeps the position of its first
// occurrence and the URL of its last.
func ExtractLinks(html, baseURL string) ([]models.AircraftLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	links := models.NewOrderedMap[models.AircraftLink]()

	doc.Find(LinkSelector).Each(func(_ int, a *goquery.Selection) {
		text := strings.TrimSpace(a.Text())
		if !tailNumberPattern.MatchString(text) {
			return
		}

		section := a.Closest(SectionSelector)
		if section.Length() == 0 || !inCategory(section.Text()) {
			return
		}

		links.Set(text, models.AircraftLink{
			TailNumber: text,
			URL:        resolveURL(baseURL, a.AttrOr("href", "")),
		})
	})

	return links.Values(), nil
}

func inCategory(sectionText string) bool {
	for _, marker := range CategoryMarkers {
		if strings.Contains(sectionText, marker) {
			return true
		}
	}
	return false
}

// resolveURL keeps absolute hrefs and prefixes everything else with baseURL
func resolveURL(baseURL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + href
}
