package routes

import (
	"context"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
	"time"
)

// MockRouteProvider serves fixed results keyed by coordinate pair. Used in
// estimator and scheduler tests.
type MockRouteProvider struct {
	Results map[string]ports.RouteResult
	Err     error
	Calls   int
}

func NewMockRouteProvider() *MockRouteProvider {
	return &MockRouteProvider{Results: make(map[string]ports.RouteResult)}
}

func mockKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.4f,%.4f|%.4f,%.4f", from.Lat, from.Lng, to.Lat, to.Lng)
}

// Set registers the result returned for the from->to leg.
func (p *MockRouteProvider) Set(from, to domain.Coordinates, r ports.RouteResult) {
	p.Results[mockKey(from, to)] = r
}

func (p *MockRouteProvider) Route(
	_ context.Context,
	from, to domain.Coordinates,
	_ domain.TransferMode,
	_ time.Time,
) (ports.RouteResult, error) {
	p.Calls++
	if p.Err != nil {
		return ports.RouteResult{}, p.Err
	}

	r, ok := p.Results[mockKey(from, to)]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing mock leg %s", mockKey(from, to))
	}
	return r, nil
}
