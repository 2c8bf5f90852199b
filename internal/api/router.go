package api

import (
	"net/http"
	"time"

	"itinerary-service/internal/api/handlers"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

// RouterConfig tunes the HTTP surface.
type RouterConfig struct {
	// Requests allowed per client per minute; zero disables limiting.
	RateLimitPerMinute int
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(planner *services.Planner, catalog ports.Catalog, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Catalog: catalog}
	itinHandler := &handlers.ItineraryHandler{Planner: planner}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/v1/itinerary", itinHandler.Build)
	mux.HandleFunc("/v1/itinerary/feedback", itinHandler.Feedback)

	var h http.Handler = mux
	h = rateLimitMiddleware(h, cfg.RateLimitPerMinute, time.Minute)
	return loggingMiddleware(h)
}
