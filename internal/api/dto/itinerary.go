package dto

import (
	"fmt"
	"itinerary-service/internal/domain"
	"time"
)

const dateLayout = "2006-01-02"

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayTemplate struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Pace  string `json:"pace"`
}

type Preferences struct {
	Themes       []string `json:"themes"`
	ActivityTags []string `json:"activity_tags"`
	AvoidTags    []string `json:"avoid_tags"`
	Currency     string   `json:"currency"`
}

type Constraints struct {
	DailyBudgetCap     *float64 `json:"daily_budget_cap"`
	MaxTransferMinutes *int     `json:"max_transfer_minutes"`
}

type Lock struct {
	PlaceID string `json:"place_id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type ItineraryRequest struct {
	BasePlaceID string      `json:"base_place_id"`
	DateRange   DateRange   `json:"date_range"`
	DayTemplate DayTemplate `json:"day_template"`
	Modes       []string    `json:"modes"`
	Preferences Preferences `json:"preferences"`
	Constraints Constraints `json:"constraints"`
	Locks       []Lock      `json:"locks"`
}

// ToDomain validates field formats and converts the wire request into domain
// values. Semantic validation (date ordering, trip length) stays in the
// planner.
func (r ItineraryRequest) ToDomain() (domain.TripContext, domain.Preferences, domain.Constraints, []domain.Lock, error) {
	var zero domain.TripContext

	if r.BasePlaceID == "" {
		return zero, domain.Preferences{}, domain.Constraints{}, nil, fmt.Errorf("base_place_id is required")
	}

	start, err := parseDate(r.DateRange.Start, "date_range.start")
	if err != nil {
		return zero, domain.Preferences{}, domain.Constraints{}, nil, err
	}
	end, err := parseDate(r.DateRange.End, "date_range.end")
	if err != nil {
		return zero, domain.Preferences{}, domain.Constraints{}, nil, err
	}

	window, err := parseWindow(r.DayTemplate.Start, r.DayTemplate.End, "day_template")
	if err != nil {
		return zero, domain.Preferences{}, domain.Constraints{}, nil, err
	}

	modes := make([]domain.TransferMode, 0, len(r.Modes))
	for _, m := range r.Modes {
		modes = append(modes, domain.NormalizeMode(m))
	}

	locks, err := locksToDomain(r.Locks)
	if err != nil {
		return zero, domain.Preferences{}, domain.Constraints{}, nil, err
	}

	tc := domain.TripContext{
		BasePlaceID: r.BasePlaceID,
		Start:       start,
		End:         end,
		Day: domain.DayTemplate{
			Window: window,
			Pace:   domain.NormalizePace(r.DayTemplate.Pace),
		},
		Modes: modes,
	}
	prefs := domain.Preferences{
		Themes:       r.Preferences.Themes,
		ActivityTags: r.Preferences.ActivityTags,
		AvoidTags:    r.Preferences.AvoidTags,
		Currency:     r.Preferences.Currency,
	}
	cons := domain.Constraints{
		DailyBudgetCap:     r.Constraints.DailyBudgetCap,
		MaxTransferMinutes: r.Constraints.MaxTransferMinutes,
	}

	return tc, prefs, cons, locks, nil
}

func locksToDomain(locks []Lock) ([]domain.Lock, error) {
	out := make([]domain.Lock, 0, len(locks))
	for i, l := range locks {
		if l.PlaceID == "" {
			return nil, fmt.Errorf("locks[%d].place_id is required", i)
		}
		date, err := parseDate(l.Date, fmt.Sprintf("locks[%d].date", i))
		if err != nil {
			return nil, err
		}
		window, err := parseWindow(l.Start, l.End, fmt.Sprintf("locks[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Lock{
			PlaceID: l.PlaceID,
			Title:   l.Title,
			Date:    date,
			Window:  window,
		})
	}
	return out, nil
}

func parseDate(s, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM-DD, got %q", field, s)
	}
	return t, nil
}

func parseWindow(start, end, field string) (domain.TimeWindow, error) {
	s, err := domain.ParseMinuteOfDay(start)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%s.start: %w", field, err)
	}
	e, err := domain.ParseMinuteOfDay(end)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%s.end: %w", field, err)
	}
	w := domain.TimeWindow{Start: s, End: e}
	if !w.Valid() {
		return domain.TimeWindow{}, fmt.Errorf("%s: start %q must precede end %q", field, start, end)
	}
	return w, nil
}

type ActivityItem struct {
	PlaceID       string  `json:"place_id"`
	Title         string  `json:"title"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	EstimatedCost float64 `json:"estimated_cost"`
	Locked        bool    `json:"locked"`
}

type TransferItem struct {
	FromPlaceID     string  `json:"from_place_id"`
	ToPlaceID       string  `json:"to_place_id"`
	Mode            string  `json:"mode"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	DurationMinutes int     `json:"duration_minutes"`
	DistanceKm      float64 `json:"distance_km"`
	Source          string  `json:"source"`
	VerifyFailed    bool    `json:"verify_failed,omitempty"`
}

type BreakItem struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Item is the tagged-union wire form of one timeline entry; exactly one of
// the payload pointers is populated, matching Type.
type Item struct {
	Type     string        `json:"type"`
	Activity *ActivityItem `json:"activity,omitempty"`
	Transfer *TransferItem `json:"transfer,omitempty"`
	Break    *BreakItem    `json:"break,omitempty"`
}

type DaySummary struct {
	EstimatedCost float64 `json:"estimated_cost"`
	WalkingKm     float64 `json:"walking_km"`
	Activities    int     `json:"activities"`
}

type DayPlan struct {
	Date    string     `json:"date"`
	Items   []Item     `json:"items"`
	Summary DaySummary `json:"summary"`
	Notes   []string   `json:"notes,omitempty"`
}

type Totals struct {
	Cost          float64 `json:"cost"`
	WalkingKm     float64 `json:"walking_km"`
	DurationHours float64 `json:"duration_hours"`
}

type ItineraryResponse struct {
	Currency string    `json:"currency"`
	Days     []DayPlan `json:"days"`
	Totals   Totals    `json:"totals"`
}

func FromItinerary(it *domain.Itinerary) ItineraryResponse {
	res := ItineraryResponse{
		Currency: it.Currency,
		Days:     make([]DayPlan, 0, len(it.Days)),
		Totals: Totals{
			Cost:          it.Totals.Cost,
			WalkingKm:     it.Totals.WalkingKm,
			DurationHours: it.Totals.DurationHours,
		},
	}
	for i := range it.Days {
		res.Days = append(res.Days, FromDayPlan(&it.Days[i]))
	}
	return res
}

func FromDayPlan(day *domain.DayPlan) DayPlan {
	out := DayPlan{
		Date:  day.Date.Format(dateLayout),
		Items: make([]Item, 0, len(day.Items)),
		Summary: DaySummary{
			EstimatedCost: day.Summary.EstimatedCost,
			WalkingKm:     day.Summary.WalkingKm,
			Activities:    day.Summary.Activities,
		},
		Notes: day.Notes,
	}

	for _, it := range day.Items {
		switch it.Kind {
		case domain.KindActivity:
			a := it.Activity
			out.Items = append(out.Items, Item{Type: "activity", Activity: &ActivityItem{
				PlaceID:       a.PlaceID,
				Title:         a.Title,
				Start:         a.Window.Start.String(),
				End:           a.Window.End.String(),
				EstimatedCost: a.EstimatedCost,
				Locked:        a.Locked,
			}})
		case domain.KindTransfer:
			t := it.Transfer
			out.Items = append(out.Items, Item{Type: "transfer", Transfer: &TransferItem{
				FromPlaceID:     t.FromPlaceID,
				ToPlaceID:       t.ToPlaceID,
				Mode:            string(t.Mode),
				Start:           t.Window.Start.String(),
				End:             t.Window.End.String(),
				DurationMinutes: t.DurationMinutes,
				DistanceKm:      t.DistanceKm,
				Source:          t.Source,
				VerifyFailed:    t.VerifyFailed,
			}})
		case domain.KindBreak:
			out.Items = append(out.Items, Item{Type: "break", Break: &BreakItem{
				Start: it.Break.Window.Start.String(),
				End:   it.Break.Window.End.String(),
			}})
		}
	}

	return out
}
