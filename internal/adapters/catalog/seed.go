package catalog

import (
	"encoding/json"
	"fmt"
	"itinerary-service/internal/domain"
	"os"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

type seedCoords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type seedHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// POISeed is the on-disk JSON shape of one catalog entry.
type POISeed struct {
	PlaceID         string                 `json:"place_id"`
	Name            string                 `json:"name"`
	Coords          *seedCoords            `json:"coords"`
	Themes          []string               `json:"themes"`
	Tags            []string               `json:"tags"`
	PriceBand       string                 `json:"price_band"`
	EstimatedCost   float64                `json:"estimated_cost"`
	DurationMinutes int                    `json:"duration_minutes"`
	OpeningHours    map[string][]seedHours `json:"opening_hours"`
	Seasonality     []string               `json:"seasonality"`
	Region          string                 `json:"region"`
	SafetyFlags     []string               `json:"safety_flags"`
}

// Validate applies load-time checks so the engine can trust catalog records.
func (s POISeed) Validate() error {
	if strings.TrimSpace(s.PlaceID) == "" {
		return fmt.Errorf("place_id must not be empty")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("poi %q: name must not be empty", s.PlaceID)
	}
	if s.EstimatedCost < 0 {
		return fmt.Errorf("poi %q: estimated_cost must not be negative", s.PlaceID)
	}
	// Lodging entries used as trip bases carry no visit duration.
	if s.DurationMinutes < 0 {
		return fmt.Errorf("poi %q: duration_minutes must not be negative", s.PlaceID)
	}
	for day := range s.OpeningHours {
		if _, ok := weekdayNames[day]; !ok {
			return fmt.Errorf("poi %q: unknown weekday %q", s.PlaceID, day)
		}
	}
	return nil
}

// ToDomain converts a validated seed record into the immutable domain POI.
func (s POISeed) ToDomain() (*domain.POI, error) {
	hours := domain.OpeningHours{}
	for day, intervals := range s.OpeningHours {
		wd := weekdayNames[day]
		for _, iv := range intervals {
			open, err := domain.ParseMinuteOfDay(iv.Open)
			if err != nil {
				return nil, fmt.Errorf("poi %q %s: %w", s.PlaceID, day, err)
			}
			closeAt, err := domain.ParseMinuteOfDay(iv.Close)
			if err != nil {
				return nil, fmt.Errorf("poi %q %s: %w", s.PlaceID, day, err)
			}
			hours[wd] = append(hours[wd], domain.TimeWindow{Start: open, End: closeAt})
		}
	}

	poi := &domain.POI{
		PlaceID:         s.PlaceID,
		Name:            s.Name,
		Themes:          s.Themes,
		Tags:            s.Tags,
		PriceBand:       domain.PriceBand(s.PriceBand),
		EstimatedCost:   s.EstimatedCost,
		DurationMinutes: s.DurationMinutes,
		Hours:           hours,
		Seasonality:     s.Seasonality,
		Region:          s.Region,
		SafetyFlags:     s.SafetyFlags,
	}
	if s.Coords != nil {
		poi.Coords = &domain.Coordinates{Lat: s.Coords.Lat, Lng: s.Coords.Lng}
	}
	return poi, nil
}

// ReadSeedFile loads and validates the JSON POI dataset.
func ReadSeedFile(path string) ([]POISeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %q: %w", path, err)
	}

	var seeds []POISeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed %q: %w", path, err)
	}

	for i, s := range seeds {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("seed index %d: %w", i, err)
		}
	}

	return seeds, nil
}
