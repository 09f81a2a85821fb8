package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"emlak-analytics/connector"
	"emlak-analytics/models"
	"emlak-analytics/services"
	"emlak-analytics/utils"
)

// Handler bundles the dependencies of the HTTP endpoints.
type Handler struct {
	store    *services.Store
	analyzer *services.Analyzer
	manager  *connector.Manager
	logger   *utils.Logger
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PriceAnalysis runs the full pipeline for the filter selection in the query
// string. An empty filtered result is a defined state, not an error: all
// metrics come back nil and the insights still carry the no-data entry.
func (h *Handler) PriceAnalysis(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilterSpec(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.analyzer.Analyze(h.store.Snapshot(), spec)
	writeJSON(w, http.StatusOK, result)
}

// ListConnectors returns all connectors with their current status.
func (h *Handler) ListConnectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Registry().List())
}

type configureConnectorRequest struct {
	Endpoint string            `json:"endpoint"`
	APIKey   string            `json:"api_key"`
	Headers  map[string]string `json:"headers"`
}

// ConfigureConnector updates a connector's endpoint, credential and extra
// headers.
func (h *Handler) ConfigureConnector(w http.ResponseWriter, r *http.Request) {
	var req configureConnectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	conn, err := h.manager.Registry().Configure(chi.URLParam(r, "id"), req.Endpoint, req.APIKey, req.Headers)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// TestConnector fetches from the connector without storing anything.
func (h *Handler) TestConnector(w http.ResponseWriter, r *http.Request) {
	conn, err := h.manager.Test(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// SyncConnector fetches, normalizes and merges records into the store.
func (h *Handler) SyncConnector(w http.ResponseWriter, r *http.Request) {
	conn, err := h.manager.Sync(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

func parseFilterSpec(query url.Values) (models.FilterSpec, error) {
	spec := models.FilterSpec{
		City:          query.Get("city"),
		District:      query.Get("district"),
		Neighbourhood: query.Get("neighbourhood"),
		PropertyType:  query.Get("property_type"),
		ListingType:   query.Get("listing_type"),
	}

	if spec.ListingType != "" && !models.ListingType(spec.ListingType).Valid() {
		return spec, fmt.Errorf("listing_type must be %q or %q", models.ListingTypeSale, models.ListingTypeRent)
	}

	var err error
	if spec.Size, err = parseRange(query, "min_size", "max_size"); err != nil {
		return spec, err
	}
	if spec.Rooms, err = parseRange(query, "min_rooms", "max_rooms"); err != nil {
		return spec, err
	}
	if spec.Age, err = parseRange(query, "min_age", "max_age"); err != nil {
		return spec, err
	}
	return spec, nil
}

func parseRange(query url.Values, minKey, maxKey string) (models.NumericRange, error) {
	var r models.NumericRange
	var err error
	if r.Min, err = parseBound(query, minKey); err != nil {
		return r, err
	}
	r.Max, err = parseBound(query, maxKey)
	return r, err
}

func parseBound(query url.Values, key string) (*float64, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	if v < 0 {
		return nil, fmt.Errorf("%s must be non-negative", key)
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
