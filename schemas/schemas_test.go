package schemas

import "testing"

func TestValidateListingAcceptsCanonicalRecord(t *testing.T) {
	record := map[string]any{
		"city":          "Istanbul",
		"district":      "Kadıköy",
		"property_type": "Apartment",
		"listing_type":  "sale",
		"size_m2":       95.0,
		"rooms":         "2+1",
		"price":         4250000.0,
		"listing_date":  "2024-03-14",
	}

	if err := ValidateListing(record); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}
}

func TestValidateListingRejections(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
	}{
		{"missing city", map[string]any{
			"district": "Kadıköy", "property_type": "Apartment", "listing_type": "sale",
		}},
		{"bad listing type", map[string]any{
			"city": "Istanbul", "district": "Kadıköy", "property_type": "Apartment", "listing_type": "auction",
		}},
		{"zero price", map[string]any{
			"city": "Istanbul", "district": "Kadıköy", "property_type": "Apartment", "listing_type": "sale",
			"price": 0.0,
		}},
		{"negative size", map[string]any{
			"city": "Istanbul", "district": "Kadıköy", "property_type": "Apartment", "listing_type": "sale",
			"size_m2": -10.0,
		}},
	}

	for _, tt := range tests {
		if err := ValidateListing(tt.record); err == nil {
			t.Errorf("%s: expected a validation error", tt.name)
		}
	}
}
