package services

import (
	"context"
	"testing"
	"time"

	"itinerary-service/internal/adapters/cache"
	"itinerary-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heuristicRun() *RunEstimator {
	return NewEstimator(nil, cache.NewTransferCache(30*time.Minute), time.Second).NewRun(0)
}

func TestScheduleDayPacksAroundLock(t *testing.T) {
	base := testPOI("base", "Hotel", 6.9271, 79.8612, 0, 0)
	a := testPOI("poi_a", "Fort Walk", 6.9290, 79.8630, 120, 10)
	b := testPOI("poi_b", "Museum", 6.9310, 79.8650, 120, 20)
	lockPOI := testPOI("poi_lock", "Cooking Class", 6.9280, 79.8620, 120, 30)

	lockWindow := domain.TimeWindow{Start: 720, End: 840}
	in := ScheduleInput{
		Date:   testDate,
		Window: testWindow,
		Pace:   domain.PaceModerate,
		Ranked: rankAll([]*domain.POI{a, b}),
		Locks: []domain.Lock{{
			PlaceID: "poi_lock", Title: "Cooking Class", Date: testDate, Window: lockWindow,
		}},
		Base:  base,
		Mode:  domain.ModeDrive,
		Index: indexPOIs(base, a, b, lockPOI),
	}

	day, err := ScheduleDay(context.Background(), in, DefaultEngineConfig(), heuristicRun())
	require.NoError(t, err)

	acts := day.Activities()
	require.Len(t, acts, 3)
	assert.Equal(t, 3, day.Summary.Activities)
	assert.Equal(t, 10.0+20.0+30.0, day.Summary.EstimatedCost)

	// The lock keeps its exact window.
	var locked *domain.Activity
	for _, act := range acts {
		if act.Locked {
			locked = act
		}
	}
	require.NotNil(t, locked)
	assert.Equal(t, lockWindow, locked.Window)
	assert.Equal(t, "poi_lock", locked.PlaceID)

	// Items are ordered and never overlap.
	assertOrderedNonOverlapping(t, day.Items)

	// Every consecutive pair of distinct places is joined by a transfer.
	transfers := day.Transfers()
	require.NotEmpty(t, transfers)
	assert.Equal(t, "base", transfers[0].FromPlaceID)
	assert.Equal(t, "base", transfers[len(transfers)-1].ToPlaceID)
	for _, tr := range transfers {
		assert.Equal(t, domain.SourceHeuristic, tr.Source)
		assert.False(t, tr.VerifyFailed)
		assert.GreaterOrEqual(t, tr.DurationMinutes, 3)
	}
}

func TestScheduleDayOverlappingLocksConflict(t *testing.T) {
	in := ScheduleInput{
		Date:   testDate,
		Window: testWindow,
		Locks: []domain.Lock{
			{PlaceID: "poi_x", Title: "Brunch", Date: testDate, Window: domain.TimeWindow{Start: 600, End: 720}},
			{PlaceID: "poi_y", Title: "Tour", Date: testDate, Window: domain.TimeWindow{Start: 660, End: 780}},
		},
		Index: map[string]*domain.POI{},
	}

	_, err := ScheduleDay(context.Background(), in, DefaultEngineConfig(), heuristicRun())

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestScheduleDayTooManyLocks(t *testing.T) {
	locks := make([]domain.Lock, 0, 5)
	for i := 0; i < 5; i++ {
		start := domain.MinuteOfDay(540 + i*90)
		locks = append(locks, domain.Lock{
			PlaceID: string(rune('a' + i)),
			Title:   "Fixed",
			Date:    testDate,
			Window:  domain.TimeWindow{Start: start, End: start + 60},
		})
	}

	in := ScheduleInput{Date: testDate, Window: testWindow, Locks: locks, Index: map[string]*domain.POI{}}

	_, err := ScheduleDay(context.Background(), in, DefaultEngineConfig(), heuristicRun())

	var capacity *domain.CapacityError
	require.ErrorAs(t, err, &capacity)
}

func TestScheduleDayRespectsBudgetCap(t *testing.T) {
	base := testPOI("base", "Hotel", 6.9271, 79.8612, 0, 0)
	a := testPOI("poi_a", "Fort Walk", 6.9290, 79.8630, 120, 10)
	b := testPOI("poi_b", "Museum", 6.9310, 79.8650, 120, 20)

	in := ScheduleInput{
		Date:     testDate,
		Window:   testWindow,
		Ranked:   rankAll([]*domain.POI{a, b}),
		Base:     base,
		Mode:     domain.ModeDrive,
		DailyCap: floatPtr(10),
		Index:    indexPOIs(base, a, b),
	}

	day, err := ScheduleDay(context.Background(), in, DefaultEngineConfig(), heuristicRun())
	require.NoError(t, err)

	require.Equal(t, 1, day.Summary.Activities)
	assert.Equal(t, "poi_a", day.Activities()[0].PlaceID)
	assert.LessOrEqual(t, day.Summary.EstimatedCost, 10.0)
}

func TestScheduleDayMaxItemsPerDay(t *testing.T) {
	base := testPOI("base", "Hotel", 6.9271, 79.8612, 0, 0)
	pois := []*domain.POI{
		testPOI("poi_a", "One", 6.9290, 79.8630, 60, 0),
		testPOI("poi_b", "Two", 6.9300, 79.8640, 60, 0),
		testPOI("poi_c", "Three", 6.9310, 79.8650, 60, 0),
		testPOI("poi_d", "Four", 6.9320, 79.8660, 60, 0),
		testPOI("poi_e", "Five", 6.9330, 79.8670, 60, 0),
	}

	in := ScheduleInput{
		Date:   testDate,
		Window: testWindow,
		Ranked: rankAll(pois),
		Base:   base,
		Mode:   domain.ModeDrive,
		Index:  indexPOIs(append(pois, base)...),
	}

	day, err := ScheduleDay(context.Background(), in, DefaultEngineConfig(), heuristicRun())
	require.NoError(t, err)

	assert.Equal(t, DefaultEngineConfig().MaxItemsPerDay, day.Summary.Activities)
	assertOrderedNonOverlapping(t, day.Items)
}

func TestScheduleDayInsertsBreakAfterLongSpan(t *testing.T) {
	base := testPOI("base", "Hotel", 6.9271, 79.8612, 0, 0)
	// Two long back-to-back visits exceed the continuous-activity threshold.
	a := testPOI("poi_a", "Ancient City", 6.9290, 79.8630, 150, 0)
	b := testPOI("poi_b", "Rock Fortress", 6.9300, 79.8640, 120, 0)

	in := ScheduleInput{
		Date:   testDate,
		Window: testWindow,
		Ranked: rankAll([]*domain.POI{a, b}),
		Base:   base,
		Mode:   domain.ModeDrive,
		Index:  indexPOIs(base, a, b),
	}

	day, err := ScheduleDay(context.Background(), in, DefaultEngineConfig(), heuristicRun())
	require.NoError(t, err)

	hasBreak := false
	for _, it := range day.Items {
		if it.Kind == domain.KindBreak {
			hasBreak = true
			assert.Equal(t, DefaultEngineConfig().BreakMinutes, it.Window().Minutes())
		}
	}
	assert.True(t, hasBreak)
}

func TestScheduleDayEmptyRanked(t *testing.T) {
	day, err := ScheduleDay(context.Background(), ScheduleInput{
		Date:   testDate,
		Window: testWindow,
		Index:  map[string]*domain.POI{},
	}, DefaultEngineConfig(), heuristicRun())

	require.NoError(t, err)
	assert.Zero(t, day.Summary.Activities)
	assert.Empty(t, day.Items)
}

func assertOrderedNonOverlapping(t *testing.T, items []domain.Item) {
	t.Helper()
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1].Window(), items[i].Window()
		assert.LessOrEqual(t, prev.End, cur.Start,
			"items %d and %d overlap: %v then %v", i-1, i, prev, cur)
	}
}
