package services

import (
	"itinerary-service/internal/domain"
	"slices"
	"strings"
	"time"
)

// Exclusion reasons reported by the candidate generator and hard-rule filter.
const (
	ReasonExcluded       = "excluded"
	ReasonAvoidTag       = "avoid_tag"
	ReasonThemeMismatch  = "theme_mismatch"
	ReasonBadSeason      = "bad_season"
	ReasonClosed         = "closed"
	ReasonOutOfRadius    = "out_of_radius"
	ReasonOverBudget     = "over_budget"
	ReasonTransferExceed = "transfer_exceeds"
	ReasonLockConflict   = "lock_conflict"
)

// CandidateRequest frames one date's candidate generation.
type CandidateRequest struct {
	Prefs    domain.Preferences
	Date     time.Time
	Window   domain.TimeWindow
	Pace     domain.Pace
	Base     *domain.POI // resolved base place; nil disables the radius filter
	RadiusKm float64
	Excluded map[string]struct{} // place ids removed via feedback
}

// GenerateCandidates reduces the catalog to the POIs feasible for one date.
// Each drop increments a per-reason counter so callers can report why POIs
// were excluded. Output order is deterministic for identical inputs.
func GenerateCandidates(pois []*domain.POI, req CandidateRequest) ([]domain.Candidate, map[string]int) {
	reasons := make(map[string]int)
	weekday := req.Date.Weekday()

	kept := make([]domain.Candidate, 0, len(pois))
	for _, poi := range pois {
		if _, ok := req.Excluded[poi.PlaceID]; ok {
			reasons[ReasonExcluded]++
			continue
		}

		if tag := poi.FirstAvoidTag(req.Prefs.AvoidTags); tag != "" {
			reasons[ReasonAvoidTag]++
			continue
		}

		// No requested themes means no theme filter.
		if len(req.Prefs.Themes) > 0 && !poi.MatchesThemes(req.Prefs.Themes) {
			reasons[ReasonThemeMismatch]++
			continue
		}

		if !poi.InSeason(req.Date) {
			reasons[ReasonBadSeason]++
			continue
		}

		if _, ok := poi.Hours.EarliestFit(weekday, req.Window.Start, req.Window.End, poi.DurationMinutes); !ok {
			reasons[ReasonClosed]++
			continue
		}

		// POIs without coordinates fail open on the radius filter.
		distanceKm := 0.0
		if req.Base != nil && req.Base.Coords != nil && poi.Coords != nil {
			distanceKm = req.Base.Coords.DistanceKm(*poi.Coords)
			if distanceKm > req.RadiusKm {
				reasons[ReasonOutOfRadius]++
				continue
			}
		}

		kept = append(kept, domain.Candidate{
			POI:          poi,
			DistanceKm:   distanceKm,
			OpeningAlign: poi.Hours.AlignmentWith(weekday, req.Window),
		})
	}

	sortCandidates(kept, req.Prefs)
	return kept, reasons
}

// sortCandidates orders candidates deterministically: cheaper price bands
// first, then better opening alignment, then stronger preference overlap,
// with name and place id as final tie-breaks.
func sortCandidates(cands []domain.Candidate, prefs domain.Preferences) {
	slices.SortFunc(cands, func(a, b domain.Candidate) int {
		if d := a.POI.PriceBand.Order() - b.POI.PriceBand.Order(); d != 0 {
			return d
		}
		if a.OpeningAlign != b.OpeningAlign {
			if a.OpeningAlign > b.OpeningAlign {
				return -1
			}
			return 1
		}
		ao := a.POI.OverlapCount(prefs.Themes, prefs.ActivityTags)
		bo := b.POI.OverlapCount(prefs.Themes, prefs.ActivityTags)
		if ao != bo {
			return bo - ao
		}
		if d := strings.Compare(a.POI.Name, b.POI.Name); d != 0 {
			return d
		}
		return strings.Compare(a.POI.PlaceID, b.POI.PlaceID)
	})
}
