package services

import (
	"fmt"
	"strings"

	"emlak-analytics/models"
	"emlak-analytics/utils"
)

// Candidate key lists per canonical field. This table is the single source of
// truth for feed compatibility: a new portal with different field names only
// needs its keys added here.
var (
	cityKeys          = []string{"city", "City", "il", "province"}
	districtKeys      = []string{"district", "District", "ilce", "county"}
	neighbourhoodKeys = []string{"neighbourhood", "Neighborhood", "mahalle", "quarter"}
	propertyTypeKeys  = []string{"property_type", "type", "category"}
	listingTypeKeys   = []string{"listing_type", "sale_type", "status"}
	sizeKeys          = []string{"size_m2", "size", "grossSize", "netSize"}
	roomsKeys         = []string{"rooms", "room_count", "roomsTotal"}
	ageKeys           = []string{"building_age", "age", "construction_year"}
	priceKeys         = []string{"price", "salePrice", "price_value"}
	rentKeys          = []string{"rent", "monthly_rent", "rentPrice"}
	dateKeys          = []string{"listing_date", "published_at", "date", "created_at"}
)

// Normalizer builds canonical Listings from raw heterogeneous feed records.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts one raw record into a canonical Listing. Records missing
// city, district, property type or a classifiable listing type are rejected
// with a nil result; unparseable optional fields degrade to nil instead of
// blocking the record.
func (n *Normalizer) Normalize(record models.RawRecord, sourceName string) *models.Listing {
	city := extractString(record, cityKeys)
	district := extractString(record, districtKeys)
	neighbourhood := extractString(record, neighbourhoodKeys)
	propertyType := extractString(record, propertyTypeKeys)
	listingType := classifyListingType(record)

	if city == "" || district == "" || propertyType == "" || !listingType.Valid() {
		return nil
	}

	size := parseField(record, sizeKeys)
	rooms := parseRoomsField(record)
	age := parseField(record, ageKeys)
	price := positive(parseField(record, priceKeys))
	rent := positive(parseField(record, rentKeys))

	listing := &models.Listing{
		City:          city,
		District:      district,
		Neighbourhood: neighbourhood,
		PropertyType:  propertyType,
		ListingType:   listingType,
		SizeM2:        size,
		Rooms:         rooms,
		BuildingAge:   age,
		Source:        sourceName,
	}

	// Only the field matching the classified type is retained, which keeps
	// the sale⇒no-rent / rent⇒no-price invariant true at construction time.
	switch listingType {
	case models.ListingTypeSale:
		listing.Price = price
	case models.ListingTypeRent:
		listing.Rent = rent
	}

	if raw, ok := ExtractField(record, dateKeys); ok {
		listing.ListingDate = ParseDate(raw)
	}

	return listing
}

// NormalizeAll normalizes a batch, dropping rejected records and logging the
// effective count.
func (n *Normalizer) NormalizeAll(records []models.RawRecord, sourceName string) []models.Listing {
	result := make([]models.Listing, 0, len(records))
	for _, record := range records {
		listing := n.Normalize(record, sourceName)
		if listing == nil {
			n.logger.Debug("[normalizer] Dropping incomplete record from %s", sourceName)
			continue
		}
		result = append(result, *listing)
	}

	n.logger.Info("[normalizer] Normalized %d → %d listings from %s (dropped %d)",
		len(records), len(result), sourceName, len(records)-len(result))
	return result
}

// classifyListingType lower-cases the raw listing-type token and matches
// rent-indicating ("rent", "kir") and sale-indicating ("sale", "sat")
// substrings, covering both English feeds and Turkish kiralık/satılık labels.
func classifyListingType(record models.RawRecord) models.ListingType {
	raw, ok := ExtractField(record, listingTypeKeys)
	if !ok {
		return ""
	}

	token := strings.ToLower(fmt.Sprint(raw))
	switch {
	case strings.Contains(token, "rent") || strings.Contains(token, "kir"):
		return models.ListingTypeRent
	case strings.Contains(token, "sale") || strings.Contains(token, "sat"):
		return models.ListingTypeSale
	default:
		return ""
	}
}

func extractString(record models.RawRecord, keys []string) string {
	raw, ok := ExtractField(record, keys)
	if !ok {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}

func parseField(record models.RawRecord, keys []string) *float64 {
	raw, ok := ExtractField(record, keys)
	if !ok {
		return nil
	}
	return ParseNumber(raw)
}

func parseRoomsField(record models.RawRecord) *int {
	raw, ok := ExtractField(record, roomsKeys)
	if !ok {
		return nil
	}
	return ParseRooms(raw)
}

// positive collapses zero to absent: price and rent are optional positive
// numbers, and feeds sometimes send 0 to mean "not set".
func positive(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
