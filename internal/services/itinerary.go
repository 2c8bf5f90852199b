package services

import (
	"context"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"sort"
	"time"
)

// Planner orchestrates the itinerary pipeline: candidate generation, hard
// rules, ranking, and day scheduling. One Planner serves all requests; every
// request gets its own run-scoped state.
type Planner struct {
	catalog ports.Catalog
	est     *Estimator
	cfg     EngineConfig
}

func NewPlanner(catalog ports.Catalog, est *Estimator, cfg EngineConfig) *Planner {
	return &Planner{catalog: catalog, est: est, cfg: cfg}
}

// BuildRequest carries one itinerary build invocation.
type BuildRequest struct {
	Context     domain.TripContext
	Preferences domain.Preferences
	Constraints domain.Constraints
	Locks       []domain.Lock
}

// BuildItinerary produces a day-by-day plan for the whole trip range.
func (p *Planner) BuildItinerary(ctx context.Context, req BuildRequest) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "engine.BuildItinerary")(&err)

	dates, err := p.tripDates(req.Context)
	if err != nil {
		return nil, err
	}

	pois, index, base, err := p.loadCatalog(ctx, req.Context.BasePlaceID)
	if err != nil {
		return nil, err
	}

	// One pipeline run, one external call budget.
	run := p.est.NewRun(p.cfg.VerifyCallBudget)

	it := &domain.Itinerary{
		Currency: p.currency(req.Preferences),
		Days:     make([]domain.DayPlan, 0, len(dates)),
	}

	for _, date := range dates {
		day, err := p.planDay(ctx, run, dayInput{
			Date:        date,
			Context:     req.Context,
			Preferences: req.Preferences,
			Constraints: req.Constraints,
			Locks:       locksFor(req.Locks, date),
			POIs:        pois,
			Index:       index,
			Base:        base,
		})
		if err != nil {
			return nil, err
		}

		it.Totals.Cost += day.Summary.EstimatedCost
		it.Totals.WalkingKm += day.Summary.WalkingKm
		it.Days = append(it.Days, day)
	}

	it.Totals.DurationHours = float64(len(dates) * req.Context.Day.Window.Minutes() / 60)

	if err := p.checkStrictVerify(it.Days); err != nil {
		return nil, err
	}

	return it, nil
}

// dayInput bundles the per-date pipeline inputs shared by build and repack.
type dayInput struct {
	Date        time.Time
	Context     domain.TripContext
	Preferences domain.Preferences
	Constraints domain.Constraints
	Locks       []domain.Lock
	POIs        []*domain.POI
	Index       map[string]*domain.POI
	Base        *domain.POI
	Excluded    map[string]struct{}
	Window      *domain.TimeWindow // overrides the template window when set
	Pace        domain.Pace        // overrides the template pace when set
}

// planDay runs the full pipeline for a single date.
func (p *Planner) planDay(ctx context.Context, run *RunEstimator, in dayInput) (domain.DayPlan, error) {
	window := in.Context.Day.Window
	if in.Window != nil {
		window = *in.Window
	}
	pace := in.Context.Day.Pace
	if in.Pace != "" {
		pace = in.Pace
	}

	// The base place is where the traveler stays, never an activity.
	excluded := make(map[string]struct{}, len(in.Excluded)+1)
	for id := range in.Excluded {
		excluded[id] = struct{}{}
	}
	if in.Context.BasePlaceID != "" {
		excluded[in.Context.BasePlaceID] = struct{}{}
	}

	cands, genReasons := GenerateCandidates(in.POIs, CandidateRequest{
		Prefs:    in.Preferences,
		Date:     in.Date,
		Window:   window,
		Pace:     pace,
		Base:     in.Base,
		RadiusKm: p.cfg.Radius.ForPace(pace),
		Excluded: excluded,
	})

	survivors, ruleReasons := ApplyHardRules(cands, in.Constraints, in.Locks, window, in.Context.Modes)

	ranked := Rank(survivors, in.Constraints.DailyBudgetCap, in.Preferences, window, pace, p.cfg.Weights)

	day, err := ScheduleDay(ctx, ScheduleInput{
		Date:     in.Date,
		Window:   window,
		Pace:     pace,
		Ranked:   ranked,
		Locks:    in.Locks,
		Base:     in.Base,
		Mode:     in.Context.PrimaryMode(),
		DailyCap: in.Constraints.DailyBudgetCap,
		Index:    in.Index,
	}, p.cfg, run)
	if err != nil {
		return domain.DayPlan{}, err
	}

	if day.Summary.Activities == 0 {
		day.Notes = append(day.Notes, exclusionNote(genReasons, ruleReasons))
	}

	return day, nil
}

func (p *Planner) tripDates(tc domain.TripContext) ([]time.Time, error) {
	start := dateOnly(tc.Start)
	end := dateOnly(tc.End)

	if start.IsZero() || end.IsZero() {
		return nil, &domain.ValidationError{Msg: "trip start and end dates are required"}
	}
	if end.Before(start) {
		return nil, &domain.ValidationError{Msg: "trip end date precedes start date"}
	}
	if !tc.Day.Window.Valid() {
		return nil, &domain.ValidationError{Msg: "day window start must precede end"}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > p.cfg.MaxTripDays {
		return nil, &domain.ValidationError{
			Msg: fmt.Sprintf("trip spans %d days, limit is %d", days, p.cfg.MaxTripDays),
		}
	}

	out := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out, nil
}

func (p *Planner) loadCatalog(ctx context.Context, basePlaceID string) ([]*domain.POI, map[string]*domain.POI, *domain.POI, error) {
	pois, err := p.catalog.ListPOIs(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build itinerary: list pois: %w", err)
	}

	index := make(map[string]*domain.POI, len(pois))
	for _, poi := range pois {
		index[poi.PlaceID] = poi
	}

	return pois, index, index[basePlaceID], nil
}

func (p *Planner) currency(prefs domain.Preferences) string {
	if prefs.Currency != "" {
		return prefs.Currency
	}
	return p.cfg.DefaultCurrency
}

// checkStrictVerify escalates degraded transfer estimates to a request-level
// failure when strict mode is configured; otherwise degradation stays visible
// only through per-transfer flags.
func (p *Planner) checkStrictVerify(days []domain.DayPlan) error {
	if !p.cfg.StrictVerify {
		return nil
	}
	for _, day := range days {
		for _, t := range day.Transfers() {
			if t.VerifyFailed {
				return &domain.VerificationError{
					Date: day.Date,
					Msg:  fmt.Sprintf("transfer %s -> %s could not be verified", t.FromPlaceID, t.ToPlaceID),
				}
			}
		}
	}
	return nil
}

func locksFor(locks []domain.Lock, date time.Time) []domain.Lock {
	out := make([]domain.Lock, 0, len(locks))
	for _, l := range locks {
		if dateOnly(l.Date).Equal(dateOnly(date)) {
			out = append(out, l)
		}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// exclusionNote summarizes why a day ended up empty, in deterministic order.
func exclusionNote(reasonSets ...map[string]int) string {
	merged := make(map[string]int)
	for _, rs := range reasonSets {
		for k, v := range rs {
			merged[k] += v
		}
	}
	if len(merged) == 0 {
		return "No feasible activities for this day"
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	note := "No activities scheduled; exclusions:"
	for _, k := range keys {
		note += fmt.Sprintf(" %s=%d", k, merged[k])
	}
	return note
}
