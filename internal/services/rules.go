package services

import (
	"itinerary-service/internal/domain"
)

// ApplyHardRules removes candidates that structurally violate non-negotiable
// constraints. Like the generator, it drops with counted reasons and never
// fails on a single bad POI.
func ApplyHardRules(
	cands []domain.Candidate,
	cons domain.Constraints,
	locks []domain.Lock,
	window domain.TimeWindow,
	modes []domain.TransferMode,
) ([]domain.Candidate, map[string]int) {
	reasons := make(map[string]int)

	survivors := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		// Cheap per-item bound; full budget accounting happens while scheduling.
		if cons.DailyBudgetCap != nil && c.POI.EstimatedCost > *cons.DailyBudgetCap {
			reasons[ReasonOverBudget]++
			continue
		}

		if cons.MaxTransferMinutes != nil && fastestMinutes(c.DistanceKm, modes) > *cons.MaxTransferMinutes {
			reasons[ReasonTransferExceed]++
			continue
		}

		if naivePlacementConflicts(c, locks, window) {
			reasons[ReasonLockConflict]++
			continue
		}

		survivors = append(survivors, c)
	}

	return survivors, reasons
}

// fastestMinutes is the heuristic duration of the quickest requested mode for
// a straight-line distance from the base place.
func fastestMinutes(distanceKm float64, modes []domain.TransferMode) int {
	if len(modes) == 0 {
		modes = []domain.TransferMode{domain.ModeDrive}
	}
	best := 0
	for i, m := range modes {
		minutes := heuristicMinutes(distanceKm, m)
		if i == 0 || minutes < best {
			best = minutes
		}
	}
	return best
}

// naivePlacementConflicts checks whether the candidate's visit window, placed
// at its earliest feasible start, would overlap a lock. This is a conservative
// approximation, not a placement simulation; the scheduler re-checks exact
// placement and counts its own drops.
func naivePlacementConflicts(c domain.Candidate, locks []domain.Lock, window domain.TimeWindow) bool {
	if len(locks) == 0 {
		return false
	}

	start, ok := c.POI.Hours.EarliestFit(locks[0].Date.Weekday(), window.Start, window.End, c.POI.DurationMinutes)
	if !ok {
		return false
	}
	visit := domain.TimeWindow{Start: start, End: start + domain.MinuteOfDay(c.POI.DurationMinutes)}

	for _, l := range locks {
		if visit.Overlaps(l.Window) {
			return true
		}
	}
	return false
}
