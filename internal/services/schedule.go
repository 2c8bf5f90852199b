package services

import (
	"context"
	"fmt"
	"itinerary-service/internal/domain"
	"slices"
	"strings"
	"time"
)

// ScheduleInput frames one day's packing run.
type ScheduleInput struct {
	Date     time.Time
	Window   domain.TimeWindow
	Pace     domain.Pace
	Ranked   []domain.RankedCandidate
	Locks    []domain.Lock
	Base     *domain.POI
	Mode     domain.TransferMode
	DailyCap *float64
	Index    map[string]*domain.POI
}

// ScheduleDay packs ranked candidates into one day timeline around fixed
// locks. It runs as an explicit sequence of pure stages:
//
//	locks placed -> gaps computed -> activities fitted ->
//	transfers inserted -> breaks inserted -> finalized
//
// Each stage consumes the previous stage's value and returns a new one, which
// keeps the "locks never move" and "items never overlap" invariants checkable
// at every boundary.
func ScheduleDay(ctx context.Context, in ScheduleInput, cfg EngineConfig, est *RunEstimator) (domain.DayPlan, error) {
	lockActs, err := placeLocks(in, cfg)
	if err != nil {
		return domain.DayPlan{}, err
	}

	gaps := computeGaps(in.Window, lockActs)

	fitted := fitActivities(in, cfg, lockActs, gaps)

	items, notes := insertTransfers(ctx, in, est, mergeByStart(lockActs, fitted))

	items = insertBreaks(items, in.Window, cfg)

	return finalize(in, items, notes), nil
}

// placeLocks seeds the timeline with the date's locks, sorted by start time.
// Overlapping locks are a fatal condition for the day, surfaced to the
// caller rather than silently resolved.
func placeLocks(in ScheduleInput, cfg EngineConfig) ([]domain.Activity, error) {
	locks := append([]domain.Lock(nil), in.Locks...)
	slices.SortFunc(locks, func(a, b domain.Lock) int {
		if a.Window.Start != b.Window.Start {
			return int(a.Window.Start - b.Window.Start)
		}
		return strings.Compare(a.PlaceID, b.PlaceID)
	})

	if len(locks) > cfg.MaxItemsPerDay {
		return nil, &domain.CapacityError{
			Date: in.Date,
			Msg:  fmt.Sprintf("%d locks exceed the %d items per day limit", len(locks), cfg.MaxItemsPerDay),
		}
	}

	out := make([]domain.Activity, 0, len(locks))
	for i, l := range locks {
		if !l.Window.Valid() {
			return nil, &domain.ConflictError{
				Date: in.Date,
				Msg:  fmt.Sprintf("lock %q has an empty time window", l.Title),
			}
		}
		if i > 0 && locks[i-1].Window.Overlaps(l.Window) {
			return nil, &domain.ConflictError{
				Date: in.Date,
				Msg:  fmt.Sprintf("locks %q and %q overlap", locks[i-1].Title, l.Title),
			}
		}

		act := domain.Activity{
			PlaceID: l.PlaceID,
			Title:   l.Title,
			Window:  l.Window,
			Locked:  true,
		}
		if poi := in.Index[l.PlaceID]; poi != nil {
			if act.Title == "" {
				act.Title = poi.Name
			}
			act.EstimatedCost = poi.EstimatedCost
		}
		out = append(out, act)
	}

	return out, nil
}

// computeGaps derives the free intervals between the day start, the placed
// locks, and the day end.
func computeGaps(window domain.TimeWindow, lockActs []domain.Activity) []domain.TimeWindow {
	gaps := make([]domain.TimeWindow, 0, len(lockActs)+1)
	cursor := window.Start

	for _, l := range lockActs {
		if l.Window.Start > cursor {
			gaps = append(gaps, domain.TimeWindow{Start: cursor, End: l.Window.Start})
		}
		if l.Window.End > cursor {
			cursor = l.Window.End
		}
	}
	if cursor < window.End {
		gaps = append(gaps, domain.TimeWindow{Start: cursor, End: window.End})
	}

	return gaps
}

// fitActivities greedily walks the ranked list, placing the highest-ranked
// still-affordable, still-time-fitting candidate into the earliest sufficient
// gap. A placed item consumes gap time and budget headroom.
func fitActivities(in ScheduleInput, cfg EngineConfig, lockActs []domain.Activity, gaps []domain.TimeWindow) []domain.Activity {
	weekday := in.Date.Weekday()

	spent := 0.0
	used := make(map[string]struct{}, len(lockActs))
	for _, l := range lockActs {
		spent += l.EstimatedCost
		if l.PlaceID != "" {
			used[l.PlaceID] = struct{}{}
		}
	}

	remaining := cfg.MaxItemsPerDay - len(lockActs)
	placed := make([]domain.Activity, 0, remaining)

	for _, gap := range gaps {
		cursor := gap.Start

		for remaining > 0 {
			fittedOne := false

			for _, rc := range in.Ranked {
				poi := rc.POI
				if _, ok := used[poi.PlaceID]; ok {
					continue
				}
				if in.DailyCap != nil && spent+poi.EstimatedCost > *in.DailyCap {
					continue
				}
				start, ok := poi.Hours.EarliestFit(weekday, cursor, gap.End, poi.DurationMinutes)
				if !ok {
					continue
				}

				placed = append(placed, domain.Activity{
					PlaceID:       poi.PlaceID,
					Title:         poi.Name,
					Window:        domain.TimeWindow{Start: start, End: start + domain.MinuteOfDay(poi.DurationMinutes)},
					EstimatedCost: poi.EstimatedCost,
				})
				used[poi.PlaceID] = struct{}{}
				spent += poi.EstimatedCost
				cursor = start + domain.MinuteOfDay(poi.DurationMinutes)
				remaining--
				fittedOne = true
				break
			}

			if !fittedOne {
				break
			}
		}
	}

	return placed
}

func mergeByStart(lockActs, fitted []domain.Activity) []domain.Activity {
	all := append(append([]domain.Activity(nil), lockActs...), fitted...)
	slices.SortFunc(all, func(a, b domain.Activity) int {
		return int(a.Window.Start - b.Window.Start)
	})
	return all
}

// insertTransfers places a transfer segment before every activity whose
// predecessor is a different place, including the transitions from and back
// to the base place. Transfer time pushes later non-locked activities
// forward; an activity pushed past its opening hours (or into a lock) is
// dropped and the layout re-entered with the next candidates, never failing
// the pipeline.
func insertTransfers(ctx context.Context, in ScheduleInput, est *RunEstimator, acts []domain.Activity) ([]domain.Item, []string) {
	var notes []string

	for {
		items, dropIdx, dropNote := layoutWithTransfers(ctx, in, est, acts)
		if dropIdx < 0 {
			return items, append(notes, dropNote...)
		}

		notes = append(notes, fmt.Sprintf("Dropped %q: no longer fits after transfer insertion", acts[dropIdx].Title))
		acts = append(append([]domain.Activity(nil), acts[:dropIdx]...), acts[dropIdx+1:]...)
	}
}

// layoutWithTransfers lays the activity sequence onto the timeline once.
// It returns dropIdx >= 0 when one activity must be removed before retrying.
func layoutWithTransfers(ctx context.Context, in ScheduleInput, est *RunEstimator, acts []domain.Activity) ([]domain.Item, int, []string) {
	weekday := in.Date.Weekday()
	var notes []string

	items := make([]domain.Item, 0, 2*len(acts)+2)
	prevPOI := in.Base
	prevEnd := in.Window.Start
	lastDroppable := -1

	for i, act := range acts {
		actPOI := in.Index[act.PlaceID]

		var tr *domain.Transfer
		if prevPOI != nil && actPOI != nil && prevPOI.PlaceID != actPOI.PlaceID {
			t := est.Estimate(ctx, prevPOI, actPOI, in.Mode, clockAt(in.Date, prevEnd))
			t.Window = domain.TimeWindow{Start: prevEnd, End: prevEnd + domain.MinuteOfDay(t.DurationMinutes)}
			tr = &t
		}

		earliest := prevEnd
		if tr != nil {
			earliest = tr.Window.End
		}

		if act.Locked {
			// Locks never move. If the transfer cannot complete before the
			// lock starts, drop the most recent non-locked activity; with
			// nothing to drop, keep the lock and omit the infeasible transfer.
			if earliest > act.Window.Start {
				if lastDroppable >= 0 {
					return nil, lastDroppable, nil
				}
				notes = append(notes, fmt.Sprintf("Transfer to locked item %q does not fit and was omitted", act.Title))
				tr = nil
			}
			if tr != nil {
				items = append(items, domain.Item{Kind: domain.KindTransfer, Transfer: tr})
			}
			items = append(items, domain.Item{Kind: domain.KindActivity, Activity: &acts[i]})
			prevEnd = act.Window.End
		} else {
			start := act.Window.Start
			if earliest > start {
				start = earliest
			}

			poi := actPOI
			duration := int(act.Window.End - act.Window.Start)
			if poi != nil {
				fitted, ok := poi.Hours.EarliestFit(weekday, start, in.Window.End, duration)
				if !ok {
					return nil, i, nil
				}
				start = fitted
			} else if start+domain.MinuteOfDay(duration) > in.Window.End {
				return nil, i, nil
			}

			// A shifted activity must not run into the next lock; the lock's
			// own pass detects that and drops this activity.
			if tr != nil {
				items = append(items, domain.Item{Kind: domain.KindTransfer, Transfer: tr})
			}

			shifted := act
			shifted.Window = domain.TimeWindow{Start: start, End: start + domain.MinuteOfDay(duration)}
			acts[i] = shifted
			items = append(items, domain.Item{Kind: domain.KindActivity, Activity: &acts[i]})
			prevEnd = shifted.Window.End
			lastDroppable = i
		}

		if actPOI != nil {
			prevPOI = actPOI
		} else {
			prevPOI = nil
		}
	}

	// Return leg to the base place. It may extend past the day window; travel
	// home after the last activity is not bound by opening hours.
	if in.Base != nil && prevPOI != nil && prevPOI.PlaceID != in.Base.PlaceID {
		t := est.Estimate(ctx, prevPOI, in.Base, in.Mode, clockAt(in.Date, prevEnd))
		t.Window = domain.TimeWindow{Start: prevEnd, End: prevEnd + domain.MinuteOfDay(t.DurationMinutes)}
		items = append(items, domain.Item{Kind: domain.KindTransfer, Transfer: &t})
	}

	return items, -1, notes
}

// insertBreaks scans the finalized sequence for continuous occupied spans
// whose activity minutes exceed the configured threshold and places a break
// into the next idle gap wide enough to hold one.
func insertBreaks(items []domain.Item, window domain.TimeWindow, cfg EngineConfig) []domain.Item {
	if cfg.BreakAfterMinutes <= 0 || cfg.BreakMinutes <= 0 {
		return items
	}

	out := make([]domain.Item, 0, len(items)+1)
	activityMinutes := 0

	for i, it := range items {
		out = append(out, it)

		if it.Kind == domain.KindActivity {
			activityMinutes += it.Window().Minutes()
		}

		gapEnd := window.End
		if i+1 < len(items) {
			gapEnd = items[i+1].Window().Start
		}
		idle := int(gapEnd - it.Window().End)

		if idle > 0 && activityMinutes <= cfg.BreakAfterMinutes {
			// An idle gap resets the continuous span even without a break.
			activityMinutes = 0
			continue
		}

		if activityMinutes > cfg.BreakAfterMinutes && idle >= cfg.BreakMinutes {
			out = append(out, domain.Item{Kind: domain.KindBreak, Break: &domain.Break{
				Window: domain.TimeWindow{
					Start: it.Window().End,
					End:   it.Window().End + domain.MinuteOfDay(cfg.BreakMinutes),
				},
			}})
			activityMinutes = 0
		}
	}

	return out
}

// finalize computes the day summary and yields the terminal DayPlan value.
func finalize(in ScheduleInput, items []domain.Item, notes []string) domain.DayPlan {
	plan := domain.DayPlan{
		Date:  in.Date,
		Items: items,
		Notes: notes,
	}

	for _, it := range items {
		switch it.Kind {
		case domain.KindActivity:
			plan.Summary.EstimatedCost += it.Activity.EstimatedCost
			plan.Summary.Activities++
		case domain.KindTransfer:
			if it.Transfer.Mode == domain.ModeWalk {
				plan.Summary.WalkingKm += it.Transfer.DistanceKm
			}
		}
	}

	return plan
}

// clockAt anchors a minute-of-day onto a concrete date for departure-time
// cache bucketing.
func clockAt(date time.Time, m domain.MinuteOfDay) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(m) * time.Minute)
}
