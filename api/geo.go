package api

import (
	"net/http"
	"strings"
)

// cityCenters is the static city-name lookup backing the map widget. Anything
// unknown falls back to Istanbul, matching the dashboard's default view.
var cityCenters = map[string][2]float64{
	"istanbul": {41.015137, 28.979530},
	"ankara":   {39.925533, 32.866287},
	"izmir":    {38.423733, 27.142826},
}

type geoResponse struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Geo resolves a city name to map coordinates.
func (h *Handler) Geo(w http.ResponseWriter, r *http.Request) {
	city := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("city")))

	center, ok := cityCenters[city]
	if !ok {
		city = "istanbul"
		center = cityCenters[city]
	}

	writeJSON(w, http.StatusOK, geoResponse{City: city, Lat: center[0], Lng: center[1]})
}
