package models

import "time"

// RawRecord is one unprocessed record as delivered by a portal feed or the
// mock dataset. Field names are feed-specific; the normalizer resolves them
// through candidate-key lists.
type RawRecord map[string]any

// ListingType is the closed set of listing categories.
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// Valid reports whether t is one of the known listing types.
func (t ListingType) Valid() bool {
	return t == ListingTypeSale || t == ListingTypeRent
}

// Listing is the canonical normalized record. Optional fields are pointers:
// nil means the source feed did not provide a usable value, which is distinct
// from zero. Price is set only for sale listings, Rent only for rent listings.
type Listing struct {
	City          string      `json:"city"`
	District      string      `json:"district"`
	Neighbourhood string      `json:"neighbourhood"`
	PropertyType  string      `json:"property_type"`
	ListingType   ListingType `json:"listing_type"`
	SizeM2        *float64    `json:"size_m2"`
	Rooms         *int        `json:"rooms"`
	BuildingAge   *float64    `json:"building_age"`
	Price         *float64    `json:"price"`
	Rent          *float64    `json:"rent"`
	ListingDate   *time.Time  `json:"listing_date"`
	Source        string      `json:"source"`
}

// NumericRange constrains a numeric listing field. A nil bound imposes no
// constraint on that end.
type NumericRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// FilterSpec narrows the listing collection before aggregation. Empty string
// values impose no constraint.
type FilterSpec struct {
	City          string       `json:"city,omitempty"`
	District      string       `json:"district,omitempty"`
	Neighbourhood string       `json:"neighbourhood,omitempty"`
	PropertyType  string       `json:"property_type,omitempty"`
	ListingType   string       `json:"listing_type,omitempty"`
	Size          NumericRange `json:"size,omitempty"`
	Rooms         NumericRange `json:"rooms,omitempty"`
	Age           NumericRange `json:"age,omitempty"`
}
