package ports

import (
	"context"
	"itinerary-service/internal/domain"
)

// Port: a boundary for retrieving the read-only POI catalog.
type Catalog interface {
	// Return all POIs available for planning.
	ListPOIs(ctx context.Context) ([]*domain.POI, error)
}
