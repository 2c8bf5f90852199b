package services

import (
	"itinerary-service/internal/domain"
	"time"
)

// testDate is a Monday.
var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// testWindow is 09:00-18:00.
var testWindow = domain.TimeWindow{Start: 540, End: 1080}

func testPOI(id, name string, lat, lng float64, durationMin int, cost float64) *domain.POI {
	return &domain.POI{
		PlaceID:         id,
		Name:            name,
		Coords:          &domain.Coordinates{Lat: lat, Lng: lng},
		Themes:          []string{"culture"},
		Tags:            []string{"walking"},
		PriceBand:       domain.PriceLow,
		EstimatedCost:   cost,
		DurationMinutes: durationMin,
	}
}

func indexPOIs(pois ...*domain.POI) map[string]*domain.POI {
	idx := make(map[string]*domain.POI, len(pois))
	for _, p := range pois {
		idx[p.PlaceID] = p
	}
	return idx
}

func rankAll(cands []*domain.POI) []domain.RankedCandidate {
	out := make([]domain.RankedCandidate, 0, len(cands))
	for _, p := range cands {
		out = append(out, domain.RankedCandidate{Candidate: domain.Candidate{POI: p}})
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
