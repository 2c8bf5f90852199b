package catalog

import (
	"context"
	"itinerary-service/internal/domain"
)

// MemoryCatalog serves a fixed in-memory POI list. Used in tests.
type MemoryCatalog struct {
	pois []*domain.POI
}

func NewMemoryCatalog(pois []*domain.POI) *MemoryCatalog {
	return &MemoryCatalog{pois: pois}
}

func (c *MemoryCatalog) ListPOIs(_ context.Context) ([]*domain.POI, error) {
	return c.pois, nil
}
