package ports

import (
	"context"
	"itinerary-service/internal/domain"
	"time"
)

// Live travel time and distance between two coordinates.
type RouteResult struct {
	DurationMinutes int
	DistanceKm      float64
}

// Contract for live transfer verification. Implementations are reachable only
// through the transfer estimator, which owns caching, budgeting, and fallback.
type RouteProvider interface {
	// Return the travel duration and distance for one leg at a departure time.
	Route(ctx context.Context, from, to domain.Coordinates, mode domain.TransferMode, departAt time.Time) (RouteResult, error)
}
