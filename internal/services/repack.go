package services

import (
	"context"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"time"
)

// RepackRequest replans a single day of an existing itinerary in response to
// traveler feedback. Everything outside the named date is untouched.
type RepackRequest struct {
	Context     domain.TripContext
	Preferences domain.Preferences
	Constraints domain.Constraints
	Locks       []domain.Lock
	Date        time.Time
	Actions     []domain.FeedbackAction
}

// Repack rebuilds one day's plan applying the feedback actions. An empty
// action list reproduces the original plan for that day.
func (p *Planner) Repack(ctx context.Context, req RepackRequest) (_ *domain.DayPlan, err error) {
	defer obs.Time(ctx, "engine.Repack")(&err)

	date := dateOnly(req.Date)
	if date.IsZero() {
		return nil, &domain.ValidationError{Msg: "repack date is required"}
	}
	if date.Before(dateOnly(req.Context.Start)) || date.After(dateOnly(req.Context.End)) {
		return nil, &domain.ValidationError{Msg: "repack date falls outside the trip range"}
	}

	pois, index, base, err := p.loadCatalog(ctx, req.Context.BasePlaceID)
	if err != nil {
		return nil, err
	}

	adj, err := applyActions(req.Actions, index)
	if err != nil {
		return nil, err
	}

	prefs := req.Preferences.Clone()
	prefs.AvoidTags = append(prefs.AvoidTags, adj.avoidTags...)

	locks := locksFor(req.Locks, date)

	run := p.est.NewRun(p.cfg.VerifyCallBudget)
	day, err := p.planDay(ctx, run, dayInput{
		Date:        date,
		Context:     req.Context,
		Preferences: prefs,
		Constraints: req.Constraints,
		Locks:       locks,
		POIs:        pois,
		Index:       index,
		Base:        base,
		Excluded:    adj.excluded,
		Window:      adj.window,
		Pace:        adj.pace,
	})
	if err != nil {
		return nil, err
	}

	if err := locksPreserved(locks, day); err != nil {
		return nil, err
	}

	day.Notes = append(day.Notes, adj.notes...)

	if err := p.checkStrictVerify([]domain.DayPlan{day}); err != nil {
		return nil, err
	}

	return &day, nil
}

// dayAdjustments is the pipeline-facing translation of a feedback batch.
type dayAdjustments struct {
	excluded  map[string]struct{}
	avoidTags []string
	window    *domain.TimeWindow
	pace      domain.Pace
	notes     []string
}

// applyActions folds feedback actions into pipeline adjustments. Actions are
// processed in order; later actions may widen earlier ones but never undo
// them.
func applyActions(actions []domain.FeedbackAction, index map[string]*domain.POI) (dayAdjustments, error) {
	adj := dayAdjustments{excluded: make(map[string]struct{})}

	for _, a := range actions {
		switch a.Type {
		case domain.ActionRemoveItem:
			if a.PlaceID == "" {
				return adj, &domain.ValidationError{Msg: "remove_item requires a place id"}
			}
			adj.excluded[a.PlaceID] = struct{}{}
			adj.notes = append(adj.notes, fmt.Sprintf("Removed item %s", a.PlaceID))

		case domain.ActionRateItem:
			// Low ratings steer the whole day away from the item's tags.
			if a.Rating > 0 && a.Rating <= 2 {
				if poi, ok := index[a.PlaceID]; ok {
					adj.avoidTags = append(adj.avoidTags, poi.Tags...)
					adj.notes = append(adj.notes, fmt.Sprintf("Steering away from tags of %s", a.PlaceID))
				}
			}

		case domain.ActionRequestAlternative:
			if a.PlaceID != "" {
				adj.excluded[a.PlaceID] = struct{}{}
			}
			adj.avoidTags = append(adj.avoidTags, a.Tags...)
			adj.notes = append(adj.notes, "Looking for an alternative")

		case domain.ActionEditTime:
			if a.Window == nil || !a.Window.Valid() {
				return adj, &domain.ValidationError{Msg: "edit_time requires a valid window"}
			}
			w := *a.Window
			adj.window = &w
			adj.notes = append(adj.notes, fmt.Sprintf("Day window changed to %s-%s", w.Start, w.End))

		case domain.ActionDailySignal:
			if a.Energy == "low" {
				adj.pace = domain.PaceLight
				adj.notes = append(adj.notes, "Lightened the pace for today")
			}

		default:
			return adj, &domain.ValidationError{Msg: fmt.Sprintf("unknown feedback action %q", a.Type)}
		}
	}

	return adj, nil
}

// locksPreserved verifies every lock reappears in the replanned day with an
// unchanged window. Feedback must never displace a lock.
func locksPreserved(locks []domain.Lock, day domain.DayPlan) error {
	placed := make(map[string]domain.TimeWindow)
	for _, act := range day.Activities() {
		if act.Locked {
			placed[act.PlaceID] = act.Window
		}
	}

	for _, l := range locks {
		w, ok := placed[l.PlaceID]
		if !ok {
			return &domain.ConflictError{
				Date: l.Date,
				Msg:  fmt.Sprintf("lock %s missing after repack", l.PlaceID),
			}
		}
		if w != l.Window {
			return &domain.ConflictError{
				Date: l.Date,
				Msg:  fmt.Sprintf("lock %s moved after repack", l.PlaceID),
			}
		}
	}
	return nil
}
