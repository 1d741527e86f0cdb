package models

// AircraftLink points at the detail page of a single aircraft found on the index page
type AircraftLink struct {
	TailNumber string `json:"tail_number"` // Registration, e.g. N12345
	URL        string `json:"url"`         // Absolute detail page URL
}

// AircraftDetails holds the fields parsed from a detail page.
// Empty fields were not found on the page and are omitted from JSON.
type AircraftDetails struct {
	Price string `json:"price,omitempty"` // "$" followed by the hourly rate as an integer
	Year  string `json:"year,omitempty"`  // 4-digit model year
	Type  string `json:"type,omitempty"`  // Avionics variant, currently only TypeNXi
}

// TypeNXi marks aircraft equipped with the Garmin G1000 NXi suite
const TypeNXi = "nxi"

// IsEmpty reports whether no field was extracted
func (d AircraftDetails) IsEmpty() bool {
	return d == AircraftDetails{}
}

// FleetResult maps tail numbers to their details in processing order
type FleetResult = OrderedMap[AircraftDetails]

// NewFleetResult creates an empty FleetResult
func NewFleetResult() *FleetResult {
	return NewOrderedMap[AircraftDetails]()
}
