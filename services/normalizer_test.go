package services

import (
	"testing"

	"emlak-analytics/models"
	"emlak-analytics/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func saleRecord() models.RawRecord {
	return models.RawRecord{
		"city":          "Istanbul",
		"district":      "Kadıköy",
		"neighbourhood": "Moda",
		"property_type": "Apartment",
		"listing_type":  "sale",
		"size_m2":       95.0,
		"rooms":         "2+1",
		"building_age":  12.0,
		"price":         4250000.0,
		"rent":          15000.0,
		"listing_date":  "2024-03-14",
	}
}

func TestNormalizeSaleListing(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	l := n.Normalize(saleRecord(), "test feed")
	if l == nil {
		t.Fatal("expected a listing, got nil")
	}

	if l.City != "Istanbul" || l.District != "Kadıköy" || l.PropertyType != "Apartment" {
		t.Errorf("categorical fields wrong: %+v", l)
	}
	if l.ListingType != models.ListingTypeSale {
		t.Errorf("listing type = %s; want sale", l.ListingType)
	}
	if l.Price == nil || *l.Price != 4250000 {
		t.Errorf("price = %v; want 4250000", l.Price)
	}
	if l.Rent != nil {
		t.Errorf("sale listing must not carry rent, got %v", *l.Rent)
	}
	if l.Rooms == nil || *l.Rooms != 2 {
		t.Errorf("rooms = %v; want 2", l.Rooms)
	}
	if l.ListingDate == nil || l.ListingDate.Format("2006-01-02") != "2024-03-14" {
		t.Errorf("listing date = %v; want 2024-03-14", l.ListingDate)
	}
	if l.Source != "test feed" {
		t.Errorf("source = %q; want %q", l.Source, "test feed")
	}
}

func TestNormalizeRentListingDropsPrice(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	record := saleRecord()
	record["listing_type"] = "rent"

	l := n.Normalize(record, "test feed")
	if l == nil {
		t.Fatal("expected a listing, got nil")
	}
	if l.Price != nil {
		t.Errorf("rent listing must not carry price, got %v", *l.Price)
	}
	if l.Rent == nil || *l.Rent != 15000 {
		t.Errorf("rent = %v; want 15000", l.Rent)
	}
}

func TestNormalizeTurkishFeed(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	record := models.RawRecord{
		"il":       "Ankara",
		"ilce":     "Çankaya",
		"category": "Daire",
		"status":   "Kiralık",
		"rent":     "17.500 TL",
	}

	l := n.Normalize(record, "portal")
	if l == nil {
		t.Fatal("expected a listing from Turkish field names, got nil")
	}
	if l.City != "Ankara" || l.District != "Çankaya" {
		t.Errorf("location fields wrong: %+v", l)
	}
	if l.ListingType != models.ListingTypeRent {
		t.Errorf("listing type = %s; want rent (from Kiralık)", l.ListingType)
	}
}

func TestNormalizeRejectsIncompleteRecords(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	tests := []struct {
		name   string
		mutate func(models.RawRecord)
	}{
		{"missing city", func(r models.RawRecord) { delete(r, "city") }},
		{"missing district", func(r models.RawRecord) { delete(r, "district") }},
		{"missing property type", func(r models.RawRecord) { delete(r, "property_type") }},
		{"missing listing type", func(r models.RawRecord) { delete(r, "listing_type") }},
		{"unknown listing type", func(r models.RawRecord) { r["listing_type"] = "auction" }},
		{"empty city", func(r models.RawRecord) { r["city"] = "" }},
	}

	for _, tt := range tests {
		record := saleRecord()
		tt.mutate(record)
		if l := n.Normalize(record, "test feed"); l != nil {
			t.Errorf("%s: expected rejection, got %+v", tt.name, l)
		}
	}
}

func TestNormalizeZeroPriceBecomesAbsent(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	record := saleRecord()
	record["price"] = 0.0

	l := n.Normalize(record, "test feed")
	if l == nil {
		t.Fatal("zero price should not reject the record")
	}
	if l.Price != nil {
		t.Errorf("zero price should collapse to absent, got %v", *l.Price)
	}
}

func TestNormalizeUnparseableOptionalsDegrade(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	record := saleRecord()
	record["size_m2"] = "geniş"
	record["rooms"] = "Stüdyo"
	record["listing_date"] = "dün"

	l := n.Normalize(record, "test feed")
	if l == nil {
		t.Fatal("unparseable optionals must not reject the record")
	}
	if l.SizeM2 != nil || l.Rooms != nil || l.ListingDate != nil {
		t.Errorf("unparseable optionals should be nil: size=%v rooms=%v date=%v",
			l.SizeM2, l.Rooms, l.ListingDate)
	}
}

func TestNormalizeAllDropsAndKeeps(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	bad := saleRecord()
	delete(bad, "city")

	listings := n.NormalizeAll([]models.RawRecord{saleRecord(), bad, saleRecord()}, "test feed")
	if len(listings) != 2 {
		t.Errorf("expected 2 surviving listings, got %d", len(listings))
	}
}
