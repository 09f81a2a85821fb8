package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"emlak-analytics/models"
)

// recordWrapperKeys are tried in order when the response body is an object
// instead of a raw array.
var recordWrapperKeys = []string{"data", "results", "items"}

var bearerPrefixRegexp = regexp.MustCompile(`(?i)^bearer\s+`)

// ErrNoEndpoint is returned when a connector has no endpoint configured.
var ErrNoEndpoint = errors.New("no API endpoint configured")

// Client fetches raw listing records from connector endpoints.
type Client struct {
	http *http.Client
}

// NewClient creates a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch performs a GET against the connector's endpoint and returns the raw
// records. The body may be a JSON array or an object wrapping the array under
// one of the data/results/items keys, first match wins. Non-2xx responses,
// non-JSON content types and missing record arrays are ingestion errors.
func (c *Client) Fetch(ctx context.Context, conn models.Connector) ([]models.RawRecord, error) {
	if strings.TrimSpace(conn.Endpoint) == "" {
		return nil, ErrNoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, conn.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	applyHeaders(req, conn)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", conn.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "json") {
		return nil, fmt.Errorf("expected a JSON response but got %q", contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return unwrapRecords(body)
}

// applyHeaders sets the Authorization header from the API key — adding the
// Bearer prefix unless the user already typed one — plus any extra headers.
func applyHeaders(req *http.Request, conn models.Connector) {
	if conn.APIKey != "" {
		if bearerPrefixRegexp.MatchString(conn.APIKey) {
			req.Header.Set("Authorization", conn.APIKey)
		} else {
			req.Header.Set("Authorization", "Bearer "+conn.APIKey)
		}
	}
	for key, value := range conn.Headers {
		req.Header.Set(key, value)
	}
}

func unwrapRecords(body []byte) ([]models.RawRecord, error) {
	var records []models.RawRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	for _, key := range recordWrapperKeys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
	}

	return nil, errors.New("no record array found; checked the data, results and items keys")
}
