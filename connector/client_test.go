package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"emlak-analytics/models"
)

func testClient() *Client {
	return NewClient(5 * time.Second)
}

func TestFetchPlainArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"city":"Istanbul"},{"city":"Ankara"}]`))
	}))
	defer srv.Close()

	records, err := testClient().Fetch(context.Background(), models.Connector{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[0]["city"] != "Istanbul" {
		t.Errorf("records = %v", records)
	}
}

func TestFetchWrappedPayloads(t *testing.T) {
	for _, key := range []string{"data", "results", "items"} {
		body := `{"` + key + `":[{"city":"Izmir"}],"total":1}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))

		records, err := testClient().Fetch(context.Background(), models.Connector{Endpoint: srv.URL})
		srv.Close()

		if err != nil {
			t.Errorf("%s wrapper: unexpected error: %v", key, err)
			continue
		}
		if len(records) != 1 || records[0]["city"] != "Izmir" {
			t.Errorf("%s wrapper: records = %v", key, records)
		}
	}
}

func TestFetchNoRecordArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"hello"}`))
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), models.Connector{Endpoint: srv.URL})
	if err == nil || !strings.Contains(err.Error(), "no record array") {
		t.Errorf("expected a no-record-array error, got %v", err)
	}
}

func TestFetchRejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login required</html>"))
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), models.Connector{Endpoint: srv.URL})
	if err == nil || !strings.Contains(err.Error(), "JSON") {
		t.Errorf("expected a content-type error, got %v", err)
	}
}

func TestFetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), models.Connector{Endpoint: srv.URL})
	if err == nil || !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("expected an HTTP 403 error, got %v", err)
	}
}

func TestFetchNoEndpoint(t *testing.T) {
	_, err := testClient().Fetch(context.Background(), models.Connector{})
	if err != ErrNoEndpoint {
		t.Errorf("expected ErrNoEndpoint, got %v", err)
	}
}

func TestFetchAuthorizationHeader(t *testing.T) {
	tests := []struct {
		apiKey string
		want   string
	}{
		{"secret123", "Bearer secret123"},
		{"Bearer secret123", "Bearer secret123"},
		{"bearer secret123", "bearer secret123"},
		{"", ""},
	}

	for _, tt := range tests {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`))
		}))

		conn := models.Connector{
			Endpoint: srv.URL,
			APIKey:   tt.apiKey,
			Headers:  map[string]string{"X-Portal-Region": "TR"},
		}
		_, err := testClient().Fetch(context.Background(), conn)
		srv.Close()

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != tt.want {
			t.Errorf("apiKey %q: Authorization = %q; want %q", tt.apiKey, gotAuth, tt.want)
		}
	}
}

func TestFetchExtraHeaders(t *testing.T) {
	var gotRegion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRegion = r.Header.Get("X-Portal-Region")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	conn := models.Connector{Endpoint: srv.URL, Headers: map[string]string{"X-Portal-Region": "TR"}}
	if _, err := testClient().Fetch(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRegion != "TR" {
		t.Errorf("extra header not forwarded, got %q", gotRegion)
	}
}
