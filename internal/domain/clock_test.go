package domain

import "testing"

func TestParseMinuteOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want MinuteOfDay
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{" 08:15 ", 495, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"noonish", 0, false},
	}

	for _, c := range cases {
		got, err := ParseMinuteOfDay(c.in)
		if c.ok && err != nil {
			t.Errorf("ParseMinuteOfDay(%q): unexpected error %v", c.in, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ParseMinuteOfDay(%q): want error, got %v", c.in, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ParseMinuteOfDay(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMinuteOfDayString(t *testing.T) {
	if s := MinuteOfDay(570).String(); s != "09:30" {
		t.Errorf("String() = %q, want 09:30", s)
	}
	if s := MinuteOfDay(0).String(); s != "00:00" {
		t.Errorf("String() = %q, want 00:00", s)
	}
}

func TestTimeWindowOverlaps(t *testing.T) {
	a := TimeWindow{Start: 540, End: 660}

	if !a.Overlaps(TimeWindow{Start: 600, End: 720}) {
		t.Error("expected overlap with intersecting window")
	}
	// Half-open: touching windows do not overlap.
	if a.Overlaps(TimeWindow{Start: 660, End: 720}) {
		t.Error("adjacent windows must not overlap")
	}
	if a.Overlaps(TimeWindow{Start: 480, End: 540}) {
		t.Error("adjacent windows must not overlap")
	}
}
