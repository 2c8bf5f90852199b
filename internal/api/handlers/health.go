package handlers

import (
	"log"
	"net/http"

	"itinerary-service/internal/ports"
)

// HealthHandler reports liveness plus catalog readiness.
type HealthHandler struct {
	Catalog ports.Catalog
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	pois, err := h.Catalog.ListPOIs(r.Context())
	if err != nil {
		log.Printf("health catalog check failed: %v", err)
		writeError(w, r, http.StatusServiceUnavailable, "catalog unavailable")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"pois":   len(pois),
	})
}
