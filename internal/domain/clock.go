package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MinuteOfDay is a clock time expressed as minutes since midnight.
// Day timelines never cross midnight, so the range is [0, 1440).
type MinuteOfDay int

// ParseMinuteOfDay parses an "HH:MM" clock string.
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse clock %q: want HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: hour: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: minute: %w", s, err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}

	return MinuteOfDay(hour*60 + minute), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// TimeWindow is a half-open [Start, End) interval within one day.
type TimeWindow struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

func (w TimeWindow) Minutes() int { return int(w.End - w.Start) }

func (w TimeWindow) Valid() bool { return w.Start < w.End }

// Overlaps reports whether two half-open windows intersect.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start < o.End && o.Start < w.End
}
