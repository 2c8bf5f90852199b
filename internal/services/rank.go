package services

import (
	"itinerary-service/internal/domain"
	"slices"
	"strings"
)

// Rank assigns every surviving candidate a composite desirability score and
// returns them in a deterministic total order: descending score, place id
// ascending on ties. Identical inputs always yield identical ordering.
func Rank(
	cands []domain.Candidate,
	dailyCap *float64,
	prefs domain.Preferences,
	window domain.TimeWindow,
	pace domain.Pace,
	w RankWeights,
) []domain.RankedCandidate {
	// Diversity is computed against themes of already-scored candidates, so
	// score in a deterministic base order first.
	base := append([]domain.Candidate(nil), cands...)
	slices.SortFunc(base, func(a, b domain.Candidate) int {
		return strings.Compare(a.POI.PlaceID, b.POI.PlaceID)
	})

	themeSeen := make(map[string]int)
	out := make([]domain.RankedCandidate, 0, len(base))

	for _, c := range base {
		br := domain.ScoreBreakdown{
			PreferenceFit: preferenceFit(c.POI, prefs),
			TimeFit:       timeFit(c.POI.DurationMinutes, window, pace),
			BudgetFit:     budgetFit(c.POI.EstimatedCost, dailyCap),
			Diversity:     diversity(c.POI.Themes, themeSeen),
			HealthFit:     healthFit(c.POI, pace),
		}

		score := w.PreferenceFit*br.PreferenceFit +
			w.TimeFit*br.TimeFit +
			w.BudgetFit*br.BudgetFit +
			w.Diversity*br.Diversity +
			w.HealthFit*br.HealthFit

		out = append(out, domain.RankedCandidate{Candidate: c, Score: score, Breakdown: br})

		for _, t := range c.POI.Themes {
			themeSeen[strings.ToLower(t)]++
		}
	}

	slices.SortStableFunc(out, func(a, b domain.RankedCandidate) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		// Tie-breaker ensures reproducible output across runs.
		return strings.Compare(a.POI.PlaceID, b.POI.PlaceID)
	})

	return out
}

// preferenceFit is the overlap fraction between the candidate's themes/tags
// and the requested preferences. No stated preferences scores neutral.
func preferenceFit(poi *domain.POI, prefs domain.Preferences) float64 {
	requested := len(prefs.Themes) + len(prefs.ActivityTags)
	if requested == 0 {
		return 0.5
	}
	overlap := poi.OverlapCount(prefs.Themes, prefs.ActivityTags)
	return clamp01(float64(overlap) / float64(requested))
}

// timeFit scores how well the visit duration matches the day and pace. The
// sweet spot band comes from the pace: lighter pacing favors shorter visits.
func timeFit(durationMin int, window domain.TimeWindow, pace domain.Pace) float64 {
	if durationMin >= window.Minutes() {
		return 0
	}

	var lo, hi int
	switch pace {
	case domain.PaceLight:
		lo, hi = 30, 120
	case domain.PaceIntense:
		lo, hi = 60, 240
	default:
		lo, hi = 60, 150
	}

	if durationMin >= lo && durationMin <= hi {
		return 1
	}
	return 0.6
}

// budgetFit relates candidate cost to the remaining budget headroom: free and
// cheap items score high, items above a quarter of the cap are penalized.
func budgetFit(cost float64, dailyCap *float64) float64 {
	if dailyCap == nil {
		return 1
	}
	limit := *dailyCap
	if limit <= 0 {
		if cost > 0 {
			return 0
		}
		return 1
	}
	over := cost - 0.25*limit
	if over < 0 {
		over = 0
	}
	return clamp01(1 - over/limit)
}

// diversity penalizes themes already over-represented among higher-ranked
// candidates, encouraging theme spread across the day.
func diversity(themes []string, seen map[string]int) float64 {
	if len(themes) == 0 {
		return 0.5
	}
	worst := 0
	for _, t := range themes {
		if n := seen[strings.ToLower(t)]; n > worst {
			worst = n
		}
	}
	return clamp01(1 - 0.25*float64(worst))
}

// healthFit aligns candidate exertion with the requested pace: long visits or
// exertion-flagged POIs score poorly on a light pace.
func healthFit(poi *domain.POI, pace domain.Pace) float64 {
	strenuous := false
	for _, f := range poi.SafetyFlags {
		switch strings.ToLower(f) {
		case "steep_climb", "long_hike", "wild_animals", "sea_sickness":
			strenuous = true
		}
	}

	switch pace {
	case domain.PaceLight:
		if strenuous || poi.DurationMinutes > 180 {
			return 0.1
		}
		return 1
	case domain.PaceIntense:
		if strenuous {
			return 1
		}
		return 0.7
	}
	if strenuous {
		return 0.5
	}
	return 0.8
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
