package domain

import (
	"strings"
	"time"
)

// Pace is the requested activity density for a day.
type Pace string

const (
	PaceLight    Pace = "light"
	PaceModerate Pace = "moderate"
	PaceIntense  Pace = "intense"
)

// NormalizePace maps free-form input onto the closed pace set,
// defaulting to moderate.
func NormalizePace(s string) Pace {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "slow", "low":
		return PaceLight
	case "intense", "fast", "high":
		return PaceIntense
	}
	return PaceModerate
}

// TransferMode is the normalized transport mode for a transfer segment.
type TransferMode string

const (
	ModeDrive   TransferMode = "DRIVE"
	ModeWalk    TransferMode = "WALK"
	ModeBike    TransferMode = "BIKE"
	ModeTransit TransferMode = "TRANSIT"
)

// NormalizeMode maps free-form input onto the closed mode set.
// Unrecognized modes fall back to DRIVE.
func NormalizeMode(s string) TransferMode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DRIVE", "DRIVING", "CAR":
		return ModeDrive
	case "WALK", "WALKING", "FOOT":
		return ModeWalk
	case "BIKE", "BICYCLE", "CYCLING":
		return ModeBike
	case "TRANSIT", "BUS", "TRAIN":
		return ModeTransit
	}
	return ModeDrive
}

// Preferences captures what the traveler wants more or less of.
// Pipeline runs operate on copies; the caller's value is never mutated.
type Preferences struct {
	Themes       []string
	ActivityTags []string
	AvoidTags    []string
	Currency     string
}

// Clone returns a deep copy safe to mutate during a feedback rerun.
func (p Preferences) Clone() Preferences {
	cp := p
	cp.Themes = append([]string(nil), p.Themes...)
	cp.ActivityTags = append([]string(nil), p.ActivityTags...)
	cp.AvoidTags = append([]string(nil), p.AvoidTags...)
	return cp
}

// Constraints are hard, non-negotiable limits. Nil means unconstrained.
type Constraints struct {
	DailyBudgetCap     *float64
	MaxTransferMinutes *int
}

// Lock is a user-fixed commitment in a day. Locks are placed before any
// ranked candidate and never displaced.
type Lock struct {
	PlaceID string
	Title   string
	Date    time.Time
	Window  TimeWindow
}

// DayTemplate describes the usable day window and pacing.
type DayTemplate struct {
	Window TimeWindow
	Pace   Pace
}

// TripContext frames a whole planning request.
type TripContext struct {
	BasePlaceID string
	Start       time.Time
	End         time.Time
	Day         DayTemplate
	Modes       []TransferMode
}

// PrimaryMode returns the mode used for transfer segments (first requested,
// DRIVE when none given).
func (t TripContext) PrimaryMode() TransferMode {
	if len(t.Modes) > 0 {
		return t.Modes[0]
	}
	return ModeDrive
}

// Feedback action types accepted by the repacker.
const (
	ActionRateItem           = "rate_item"
	ActionRemoveItem         = "remove_item"
	ActionRequestAlternative = "request_alternative"
	ActionEditTime           = "edit_time"
	ActionDailySignal        = "daily_signal"
)

// FeedbackAction is one user reaction to a planned day. Fields are populated
// depending on Type.
type FeedbackAction struct {
	Type        string
	PlaceID     string
	Rating      int
	Tags        []string
	NearPlaceID string
	Window      *TimeWindow
	Energy      string
}
