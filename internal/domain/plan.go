package domain

import "time"

// Transfer estimate sources.
const (
	SourceHeuristic  = "heuristic"
	SourceRoutesLive = "google_routes_live"
)

// Activity is a scheduled visit to a POI.
type Activity struct {
	PlaceID       string
	Title         string
	Window        TimeWindow
	EstimatedCost float64
	Locked        bool
}

// Transfer is a movement segment between two consecutive schedule items.
type Transfer struct {
	FromPlaceID     string
	ToPlaceID       string
	Mode            TransferMode
	Window          TimeWindow
	DurationMinutes int
	DistanceKm      float64
	Source          string
	VerifyFailed    bool
}

// Break is an inserted rest segment.
type Break struct {
	Window TimeWindow
}

// ItemKind discriminates scheduled items.
type ItemKind string

const (
	KindActivity ItemKind = "activity"
	KindTransfer ItemKind = "transfer"
	KindBreak    ItemKind = "break"
)

// Item is one entry in a day timeline. Exactly one of the pointers is set,
// matching Kind.
type Item struct {
	Kind     ItemKind
	Activity *Activity
	Transfer *Transfer
	Break    *Break
}

// Window returns the occupied time window of the item.
func (i Item) Window() TimeWindow {
	switch i.Kind {
	case KindActivity:
		return i.Activity.Window
	case KindTransfer:
		return i.Transfer.Window
	case KindBreak:
		return i.Break.Window
	}
	return TimeWindow{}
}

// DaySummary aggregates per-day cost and movement totals.
type DaySummary struct {
	EstimatedCost float64
	WalkingKm     float64
	Activities    int
}

// DayPlan is the finalized timeline for a single date. Items are strictly
// time-ordered and pairwise non-overlapping.
type DayPlan struct {
	Date    time.Time
	Items   []Item
	Summary DaySummary
	Notes   []string
}

// Activities returns the activity items of the plan in timeline order.
func (d *DayPlan) Activities() []*Activity {
	out := make([]*Activity, 0, len(d.Items))
	for _, it := range d.Items {
		if it.Kind == KindActivity {
			out = append(out, it.Activity)
		}
	}
	return out
}

// Transfers returns the transfer items of the plan in timeline order.
func (d *DayPlan) Transfers() []*Transfer {
	out := make([]*Transfer, 0, len(d.Items))
	for _, it := range d.Items {
		if it.Kind == KindTransfer {
			out = append(out, it.Transfer)
		}
	}
	return out
}

// Totals aggregates itinerary-wide metrics.
type Totals struct {
	Cost          float64
	WalkingKm     float64
	DurationHours float64
}

// Itinerary is the full multi-day plan returned to the caller.
type Itinerary struct {
	Currency string
	Days     []DayPlan
	Totals   Totals
}

// Candidate is a POI deemed feasible for one specific date, annotated with
// runtime fields used by ranking and scheduling.
type Candidate struct {
	POI          *POI
	DistanceKm   float64
	OpeningAlign float64
}

// ScoreBreakdown holds the component sub-scores behind a composite score.
type ScoreBreakdown struct {
	PreferenceFit float64
	TimeFit       float64
	BudgetFit     float64
	Diversity     float64
	HealthFit     float64
}

// RankedCandidate is a Candidate with its composite desirability score.
type RankedCandidate struct {
	Candidate
	Score     float64
	Breakdown ScoreBreakdown
}
