package server

import (
	"net/http"

	"github.com/maauso/dreamjob/internal/board"
)

func toCityResponse(c board.City) CityResponse {
	return CityResponse{ID: c.ID, Name: c.Name}
}

// ListCities handles GET /cities requests.
func (h *Handlers) ListCities(w http.ResponseWriter, r *http.Request) {
	all := h.cities.FindAll(r.Context())
	resp := make([]CityResponse, 0, len(all))
	for _, c := range all {
		resp = append(resp, toCityResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCity handles GET /cities/{id} requests.
func (h *Handlers) GetCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, found := h.cities.FindByID(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "city not found", "CITY_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, toCityResponse(c))
}
