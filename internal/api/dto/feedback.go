package dto

import (
	"fmt"
	"itinerary-service/internal/domain"
	"time"
)

type FeedbackAction struct {
	Type        string   `json:"type"`
	PlaceID     string   `json:"place_id"`
	Rating      int      `json:"rating"`
	Tags        []string `json:"tags"`
	NearPlaceID string   `json:"near_place_id"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Energy      string   `json:"energy"`
}

// FeedbackRequest replans one date of a previously built itinerary. The trip
// framing fields match ItineraryRequest so the day is reproduced under the
// same context, adjusted by the actions.
type FeedbackRequest struct {
	BasePlaceID string           `json:"base_place_id"`
	DateRange   DateRange        `json:"date_range"`
	DayTemplate DayTemplate      `json:"day_template"`
	Modes       []string         `json:"modes"`
	Preferences Preferences      `json:"preferences"`
	Constraints Constraints      `json:"constraints"`
	Locks       []Lock           `json:"locks"`
	Date        string           `json:"date"`
	Actions     []FeedbackAction `json:"actions"`
}

func (r FeedbackRequest) ToDomain() (domain.TripContext, domain.Preferences, domain.Constraints, []domain.Lock, time.Time, []domain.FeedbackAction, error) {
	base := ItineraryRequest{
		BasePlaceID: r.BasePlaceID,
		DateRange:   r.DateRange,
		DayTemplate: r.DayTemplate,
		Modes:       r.Modes,
		Preferences: r.Preferences,
		Constraints: r.Constraints,
		Locks:       r.Locks,
	}
	tc, prefs, cons, locks, err := base.ToDomain()
	if err != nil {
		return tc, prefs, cons, locks, time.Time{}, nil, err
	}

	date, err := parseDate(r.Date, "date")
	if err != nil {
		return tc, prefs, cons, locks, time.Time{}, nil, err
	}

	actions, err := actionsToDomain(r.Actions)
	if err != nil {
		return tc, prefs, cons, locks, time.Time{}, nil, err
	}

	return tc, prefs, cons, locks, date, actions, nil
}

func actionsToDomain(actions []FeedbackAction) ([]domain.FeedbackAction, error) {
	out := make([]domain.FeedbackAction, 0, len(actions))
	for i, a := range actions {
		da := domain.FeedbackAction{
			Type:        a.Type,
			PlaceID:     a.PlaceID,
			Rating:      a.Rating,
			Tags:        a.Tags,
			NearPlaceID: a.NearPlaceID,
			Energy:      a.Energy,
		}
		if a.Start != "" || a.End != "" {
			w, err := parseWindow(a.Start, a.End, fmt.Sprintf("actions[%d]", i))
			if err != nil {
				return nil, err
			}
			da.Window = &w
		}
		out = append(out, da)
	}
	return out, nil
}

type FeedbackResponse struct {
	Day DayPlan `json:"day"`
}
