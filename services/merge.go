package services

import (
	"strconv"
	"strings"
	"time"

	"emlak-analytics/models"
)

const identityDelimiter = "|"

// IdentityKey computes the stable deduplication key of a listing: the ordered
// concatenation of every identifying field, lower-cased, with absent values
// rendered as empty strings. Two listings are duplicates only when all twelve
// components coincide, so distinct listings that merely share an address and
// price are never merged away.
func IdentityKey(l models.Listing) string {
	parts := []string{
		l.City,
		l.District,
		l.Neighbourhood,
		l.PropertyType,
		string(l.ListingType),
		formatFloat(l.SizeM2),
		formatInt(l.Rooms),
		formatFloat(l.BuildingAge),
		formatFloat(l.Price),
		formatFloat(l.Rent),
		formatDate(l.ListingDate),
		l.Source,
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, identityDelimiter)
}

// Merge appends the incoming listings that are not already present in the
// existing collection and returns the merged collection together with the
// number of newly inserted listings. Order of the existing collection is
// preserved, and duplicates within the incoming batch are also collapsed.
// The input slices are not mutated.
func Merge(existing, incoming []models.Listing) ([]models.Listing, int) {
	keys := make(map[string]struct{}, len(existing)+len(incoming))
	for _, l := range existing {
		keys[IdentityKey(l)] = struct{}{}
	}

	merged := make([]models.Listing, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	added := 0
	for _, l := range incoming {
		key := IdentityKey(l)
		if _, dup := keys[key]; dup {
			continue
		}
		keys[key] = struct{}{}
		merged = append(merged, l)
		added++
	}

	return merged, added
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
