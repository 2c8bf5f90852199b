package domain

import (
	"strings"
	"time"
)

// PriceBand is a coarse cost tier used for deterministic candidate ordering.
type PriceBand string

const (
	PriceFree   PriceBand = "free"
	PriceLow    PriceBand = "low"
	PriceMedium PriceBand = "medium"
	PriceHigh   PriceBand = "high"
)

// Order maps price bands to a sortable rank; unknown bands sort with "low".
func (b PriceBand) Order() int {
	switch b {
	case PriceFree:
		return 0
	case PriceLow:
		return 1
	case PriceMedium:
		return 2
	case PriceHigh:
		return 3
	}
	return 1
}

// OpeningHours maps a weekday to the open intervals for that day.
// An empty map means hours are unknown and the POI is treated as always open.
type OpeningHours map[time.Weekday][]TimeWindow

// EarliestFit returns the earliest start >= from at which a visit of
// durationMin minutes fits inside an open interval on day, clipped to until.
func (oh OpeningHours) EarliestFit(day time.Weekday, from, until MinuteOfDay, durationMin int) (MinuteOfDay, bool) {
	if from+MinuteOfDay(durationMin) > until {
		return 0, false
	}
	if len(oh) == 0 {
		return from, true
	}

	for _, iv := range oh[day] {
		start := iv.Start
		if start < from {
			start = from
		}
		end := iv.End
		if end > until {
			end = until
		}
		if start+MinuteOfDay(durationMin) <= end {
			return start, true
		}
	}

	return 0, false
}

// Contains reports whether [start, start+durationMin) lies inside an open
// interval on day. Unknown hours are treated as open.
func (oh OpeningHours) Contains(day time.Weekday, start MinuteOfDay, durationMin int) bool {
	if len(oh) == 0 {
		return true
	}
	for _, iv := range oh[day] {
		if start >= iv.Start && start+MinuteOfDay(durationMin) <= iv.End {
			return true
		}
	}
	return false
}

// AlignmentWith returns the fraction [0..1] of window covered by the best open
// interval on day. Used as a soft scheduling signal, not a hard filter.
func (oh OpeningHours) AlignmentWith(day time.Weekday, window TimeWindow) float64 {
	if !window.Valid() {
		return 0
	}
	if len(oh) == 0 {
		return 0.5
	}

	best := 0.0
	for _, iv := range oh[day] {
		start := max(window.Start, iv.Start)
		end := min(window.End, iv.End)
		if start >= end {
			continue
		}
		ratio := float64(end-start) / float64(window.Minutes())
		if ratio > best {
			best = ratio
		}
	}
	return best
}

// POI is a visitable place. Instances are loaded once from the catalog and
// shared read-only across pipeline runs.
type POI struct {
	PlaceID         string
	Name            string
	Coords          *Coordinates
	Themes          []string
	Tags            []string
	PriceBand       PriceBand
	EstimatedCost   float64
	DurationMinutes int
	Hours           OpeningHours
	Seasonality     []string
	Region          string
	SafetyFlags     []string
}

// InSeason reports whether date's month falls in the POI's seasonal window.
// No seasonality, or the "All" marker, means year-round.
func (p *POI) InSeason(date time.Time) bool {
	if len(p.Seasonality) == 0 {
		return true
	}
	month := date.Format("Jan")
	for _, s := range p.Seasonality {
		if strings.EqualFold(s, "all") || strings.EqualFold(s, month) {
			return true
		}
	}
	return false
}

// FirstAvoidTag returns the first tag of the POI present in avoid, or "".
// Matching is case-insensitive.
func (p *POI) FirstAvoidTag(avoid []string) string {
	for _, a := range avoid {
		for _, t := range p.Tags {
			if strings.EqualFold(a, t) {
				return a
			}
		}
	}
	return ""
}

// MatchesThemes reports whether the POI shares at least one theme with want.
func (p *POI) MatchesThemes(want []string) bool {
	for _, w := range want {
		for _, t := range p.Themes {
			if strings.EqualFold(w, t) {
				return true
			}
		}
	}
	return false
}

// OverlapCount counts case-insensitive matches between the POI's themes/tags
// and the requested themes/activity tags.
func (p *POI) OverlapCount(themes, tags []string) int {
	n := 0
	for _, w := range themes {
		for _, t := range p.Themes {
			if strings.EqualFold(w, t) {
				n++
			}
		}
	}
	for _, w := range tags {
		for _, t := range p.Tags {
			if strings.EqualFold(w, t) {
				n++
			}
		}
	}
	return n
}
