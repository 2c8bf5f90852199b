package domain

import (
	"testing"
	"time"
)

func TestEarliestFit(t *testing.T) {
	oh := OpeningHours{
		time.Monday: {{Start: 540, End: 720}, {Start: 780, End: 1020}},
	}

	// Fits at the opening of the first interval.
	if start, ok := oh.EarliestFit(time.Monday, 480, 1080, 120); !ok || start != 540 {
		t.Errorf("EarliestFit = %v, %v; want 540, true", start, ok)
	}

	// Too long for the first interval, lands in the second.
	if start, ok := oh.EarliestFit(time.Monday, 540, 1080, 200); !ok || start != 780 {
		t.Errorf("EarliestFit = %v, %v; want 780, true", start, ok)
	}

	// Closed day.
	if _, ok := oh.EarliestFit(time.Sunday, 540, 1080, 60); ok {
		t.Error("expected no fit on a closed day")
	}

	// Unknown hours are always open.
	var open OpeningHours
	if start, ok := open.EarliestFit(time.Sunday, 540, 1080, 60); !ok || start != 540 {
		t.Errorf("EarliestFit on unknown hours = %v, %v; want 540, true", start, ok)
	}

	// Visit longer than the remaining day never fits.
	if _, ok := open.EarliestFit(time.Sunday, 1000, 1080, 120); ok {
		t.Error("expected no fit past the day end")
	}
}

func TestInSeason(t *testing.T) {
	march := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	always := &POI{PlaceID: "a"}
	if !always.InSeason(march) {
		t.Error("no seasonality must mean year-round")
	}

	whales := &POI{PlaceID: "b", Seasonality: []string{"Nov", "Dec", "Jan", "Feb", "Mar"}}
	if !whales.InSeason(march) {
		t.Error("March is in season")
	}

	surf := &POI{PlaceID: "c", Seasonality: []string{"Jul", "Aug"}}
	if surf.InSeason(march) {
		t.Error("March is out of season")
	}

	all := &POI{PlaceID: "d", Seasonality: []string{"All"}}
	if !all.InSeason(march) {
		t.Error("All marker must mean year-round")
	}
}

func TestOverlapCountIsCaseInsensitive(t *testing.T) {
	poi := &POI{
		Themes: []string{"Culture", "Food"},
		Tags:   []string{"Walking"},
	}

	if n := poi.OverlapCount([]string{"culture"}, []string{"walking"}); n != 2 {
		t.Errorf("OverlapCount = %d, want 2", n)
	}
	if n := poi.OverlapCount(nil, nil); n != 0 {
		t.Errorf("OverlapCount = %d, want 0", n)
	}
}

func TestAlignmentWith(t *testing.T) {
	oh := OpeningHours{
		time.Monday: {{Start: 600, End: 900}},
	}
	window := TimeWindow{Start: 540, End: 1080}

	got := oh.AlignmentWith(time.Monday, window)
	want := float64(900-600) / float64(1080-540)
	if got != want {
		t.Errorf("AlignmentWith = %v, want %v", got, want)
	}

	var unknown OpeningHours
	if got := unknown.AlignmentWith(time.Monday, window); got != 0.5 {
		t.Errorf("unknown hours alignment = %v, want 0.5", got)
	}
}
