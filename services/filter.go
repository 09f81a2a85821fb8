package services

import "emlak-analytics/models"

// ApplyFilter evaluates every listing against the filter specification and
// returns the matching subset in input order. It never mutates its input.
// Empty categorical values and nil numeric bounds impose no constraint. When
// a bound is set and the listing lacks the value, the comparison sees zero,
// so such listings fail any positive minimum.
func ApplyFilter(listings []models.Listing, spec models.FilterSpec) []models.Listing {
	result := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if matches(l, spec) {
			result = append(result, l)
		}
	}
	return result
}

func matches(l models.Listing, spec models.FilterSpec) bool {
	if spec.City != "" && l.City != spec.City {
		return false
	}
	if spec.District != "" && l.District != spec.District {
		return false
	}
	if spec.Neighbourhood != "" && l.Neighbourhood != spec.Neighbourhood {
		return false
	}
	if spec.PropertyType != "" && l.PropertyType != spec.PropertyType {
		return false
	}
	if spec.ListingType != "" && string(l.ListingType) != spec.ListingType {
		return false
	}

	rooms := intAsFloat(l.Rooms)
	return inRange(l.SizeM2, spec.Size) &&
		inRange(rooms, spec.Rooms) &&
		inRange(l.BuildingAge, spec.Age)
}

func inRange(value *float64, r models.NumericRange) bool {
	if r.Min != nil && valueOrZero(value) < *r.Min {
		return false
	}
	if r.Max != nil && valueOrZero(value) > *r.Max {
		return false
	}
	return true
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intAsFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
