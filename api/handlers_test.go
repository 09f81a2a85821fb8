package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"emlak-analytics/config"
	"emlak-analytics/connector"
	"emlak-analytics/models"
	"emlak-analytics/services"
	"emlak-analytics/utils"
)

func newTestServer(t *testing.T, listings []models.Listing) *httptest.Server {
	t.Helper()

	logger := utils.NewLogger()
	store := services.NewStore()
	store.Merge(listings)

	manager := connector.NewManager(
		connector.NewRegistry(),
		connector.NewClient(5*time.Second),
		services.NewNormalizer(logger),
		store,
		logger,
	)

	cfg := &config.Config{HTTPPort: "0", CORSOrigin: "*"}
	server := NewServer(cfg, store, services.NewAnalyzer(logger), manager, logger)

	srv := httptest.NewServer(server.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func fixtureListings() []models.Listing {
	price := 4250000.0
	rentPrice := 28500.0
	size := 95.0
	date := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	return []models.Listing{
		{
			City: "Istanbul", District: "Kadıköy", PropertyType: "Apartment",
			ListingType: models.ListingTypeSale, Price: &price, SizeM2: &size,
			ListingDate: &date, Source: "mock data",
		},
		{
			City: "Istanbul", District: "Kadıköy", PropertyType: "Apartment",
			ListingType: models.ListingTypeRent, Rent: &rentPrice, SizeM2: &size,
			ListingDate: &date, Source: "mock data",
		},
		{
			City: "Ankara", District: "Çankaya", PropertyType: "Apartment",
			ListingType: models.ListingTypeSale, Price: &price, Source: "mock data",
		},
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	var body map[string]string
	if status := getJSON(t, srv.URL+"/health", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestPriceAnalysisEndpoint(t *testing.T) {
	srv := newTestServer(t, fixtureListings())

	var result models.AnalysisResult
	if status := getJSON(t, srv.URL+"/api/price-analysis?city=Istanbul", &result); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	if result.Summary.Listings != 2 {
		t.Errorf("filtered listings = %d; want 2", result.Summary.Listings)
	}
	if result.Filters.City != "Istanbul" {
		t.Errorf("filters echo = %+v", result.Filters)
	}
	if result.YieldMetrics.RentalYieldPercent == nil {
		t.Error("expected a rental yield for the Istanbul pair")
	}
	if len(result.Insights) == 0 {
		t.Error("insights must never be empty")
	}
}

func TestPriceAnalysisEmptySelection(t *testing.T) {
	srv := newTestServer(t, fixtureListings())

	var result models.AnalysisResult
	if status := getJSON(t, srv.URL+"/api/price-analysis?city=Bursa", &result); status != http.StatusOK {
		t.Fatalf("an empty selection is a defined state; status = %d", status)
	}
	if result.Summary.Listings != 0 {
		t.Errorf("listings = %d; want 0", result.Summary.Listings)
	}
	if result.YieldMetrics.InvestmentIndex != nil {
		t.Error("index should be nil for an empty selection")
	}
	if result.Insights[0].Detail != "Not enough data for this selection." {
		t.Errorf("first insight = %q", result.Insights[0].Detail)
	}
}

func TestPriceAnalysisNumericFilters(t *testing.T) {
	srv := newTestServer(t, fixtureListings())

	var result models.AnalysisResult
	// The Ankara sale has no size and compares as zero against min_size.
	getJSON(t, srv.URL+"/api/price-analysis?min_size=50&listing_type=sale", &result)
	if result.Summary.Listings != 1 {
		t.Errorf("listings = %d; want 1", result.Summary.Listings)
	}
}

func TestPriceAnalysisValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		query   string
		wantErr string
	}{
		{"listing_type=auction", "listing_type"},
		{"min_size=abc", "min_size"},
		{"max_rooms=-2", "max_rooms"},
	}

	for _, tt := range tests {
		var body map[string]string
		status := getJSON(t, srv.URL+"/api/price-analysis?"+tt.query, &body)
		if status != http.StatusBadRequest {
			t.Errorf("%s: status = %d; want 400", tt.query, status)
			continue
		}
		if !strings.Contains(body["error"], tt.wantErr) {
			t.Errorf("%s: error = %q; want mention of %s", tt.query, body["error"], tt.wantErr)
		}
	}
}

func TestGeoEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	var body struct {
		City string  `json:"city"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	}

	getJSON(t, srv.URL+"/api/geo?city=Ankara", &body)
	if body.City != "ankara" || body.Lat == 0 {
		t.Errorf("ankara lookup = %+v", body)
	}

	getJSON(t, srv.URL+"/api/geo?city=Atlantis", &body)
	if body.City != "istanbul" {
		t.Errorf("unknown city should fall back to istanbul, got %q", body.City)
	}
}

func TestConnectorEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	var connectors []models.Connector
	if status := getJSON(t, srv.URL+"/api/connectors/", &connectors); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(connectors) != 10 {
		t.Fatalf("got %d connectors; want 10", len(connectors))
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/connectors/zingat",
		strings.NewReader(`{"endpoint":"https://feed.example.com/listings","api_key":"secret"}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var conn models.Connector
	if err := json.NewDecoder(resp.Body).Decode(&conn); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("configure status = %d", resp.StatusCode)
	}
	if conn.Endpoint != "https://feed.example.com/listings" {
		t.Errorf("endpoint = %q", conn.Endpoint)
	}

	req, _ = http.NewRequest(http.MethodPut, srv.URL+"/api/connectors/bogus", strings.NewReader(`{}`))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown connector status = %d; want 404", resp.StatusCode)
	}
}

func TestConnectorTestEndpointWithoutEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/connectors/zingat/test", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var conn models.Connector
	if err := json.NewDecoder(resp.Body).Decode(&conn); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; fetch failures surface via connector status", resp.StatusCode)
	}
	if conn.Status != models.ConnectorError {
		t.Errorf("connector status = %s; want error", conn.Status)
	}
}
