package extract

// Markup hooks on the operator's rental pages
const (
	// LinkSelector matches every anchor that can point at a detail page
	LinkSelector = "a[href]"

	// SectionSelector is the enclosing block searched for the category name
	SectionSelector = "div"

	// PriceMetaSelector is the structured product price annotation on detail pages
	PriceMetaSelector = `meta[property="product:price:amount"]`
)

// CategoryMarkers identify the Cessna 172SP G-1000 section of the index page.
// A section matches if its text contains any of them.
var CategoryMarkers = []string{
	"Cessna Skyhawk 172SP G-1000",
	"172SP G-1000",
}
