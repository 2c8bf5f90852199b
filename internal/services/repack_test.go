package services

import (
	"context"
	"testing"

	"itinerary-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepackRequest(actions ...domain.FeedbackAction) RepackRequest {
	build := testBuildRequest()
	return RepackRequest{
		Context:     build.Context,
		Preferences: build.Preferences,
		Constraints: build.Constraints,
		Locks:       build.Locks,
		Date:        testDate,
		Actions:     actions,
	}
}

func TestRepackNoActionsReproducesDay(t *testing.T) {
	p := testPlanner(testCatalogPOIs(), DefaultEngineConfig())

	it, err := p.BuildItinerary(context.Background(), testBuildRequest())
	require.NoError(t, err)

	day, err := p.Repack(context.Background(), testRepackRequest())
	require.NoError(t, err)

	assert.Equal(t, placeSequence(it.Days[0]), placeSequence(*day))
}

func TestRepackRemoveItem(t *testing.T) {
	p := testPlanner(testCatalogPOIs(), DefaultEngineConfig())

	it, err := p.BuildItinerary(context.Background(), testBuildRequest())
	require.NoError(t, err)
	require.NotEmpty(t, it.Days[0].Activities())
	removed := it.Days[0].Activities()[0].PlaceID

	day, err := p.Repack(context.Background(), testRepackRequest(domain.FeedbackAction{
		Type:    domain.ActionRemoveItem,
		PlaceID: removed,
	}))
	require.NoError(t, err)

	for _, act := range day.Activities() {
		assert.NotEqual(t, removed, act.PlaceID)
	}
	assert.Contains(t, day.Notes, "Removed item "+removed)
}

func TestRepackLowRatingAvoidsTags(t *testing.T) {
	p := testPlanner(testCatalogPOIs(), DefaultEngineConfig())

	// Every catalog POI shares the "walking" tag, so a low rating on one of
	// them steers the day away from all of them.
	day, err := p.Repack(context.Background(), testRepackRequest(domain.FeedbackAction{
		Type:    domain.ActionRateItem,
		PlaceID: "poi_museum",
		Rating:  1,
	}))
	require.NoError(t, err)

	assert.Zero(t, day.Summary.Activities)
}

func TestRepackRequestAlternative(t *testing.T) {
	p := testPlanner(testCatalogPOIs(), DefaultEngineConfig())

	day, err := p.Repack(context.Background(), testRepackRequest(domain.FeedbackAction{
		Type:    domain.ActionRequestAlternative,
		PlaceID: "poi_museum",
	}))
	require.NoError(t, err)

	for _, act := range day.Activities() {
		assert.NotEqual(t, "poi_museum", act.PlaceID)
	}
}

func TestRepackEditTimeShrinksWindow(t *testing.T) {
	p := testPlanner(testCatalogPOIs(), DefaultEngineConfig())

	window := domain.TimeWindow{Start: 600, End: 840}
	day, err := p.Repack(context.Background(), testRepackRequest(domain.FeedbackAction{
		Type:   domain.ActionEditTime,
		Window: &window,
	}))
	require.NoError(t, err)

	for _, act := range day.Activities() {
		assert.GreaterOrEqual(t, act.Window.Start, window.Start)
		assert.LessOrEqual(t, act.Window.End, window.End)
	}
}

func TestRepackLowEnergyLightensPace(t *testing.T) {
	pois := testCatalogPOIs()
	// A strenuous long visit that moderate pace accepts and light pace demotes.
	trek := testPOI("poi_trek", "Knuckles Trek", 6.9400, 79.8700, 240, 0)
	trek.SafetyFlags = []string{"long_hike"}
	pois = append(pois, trek)

	p := testPlanner(pois, DefaultEngineConfig())

	day, err := p.Repack(context.Background(), testRepackRequest(domain.FeedbackAction{
		Type:   domain.ActionDailySignal,
		Energy: "low",
	}))
	require.NoError(t, err)

	assert.Contains(t, day.Notes, "Lightened the pace for today")
}

func TestRepackPreservesLocks(t *testing.T) {
	p := testPlanner(testCatalogPOIs(), DefaultEngineConfig())

	req := testRepackRequest(domain.FeedbackAction{
		Type:    domain.ActionRemoveItem,
		PlaceID: "poi_museum",
	})
	lockWindow := domain.TimeWindow{Start: 600, End: 690}
	req.Locks = []domain.Lock{{
		PlaceID: "poi_temple", Title: "Blessing Ceremony", Date: testDate, Window: lockWindow,
	}}

	day, err := p.Repack(context.Background(), req)
	require.NoError(t, err)

	found := false
	for _, act := range day.Activities() {
		if act.Locked {
			found = true
			assert.Equal(t, lockWindow, act.Window)
		}
	}
	assert.True(t, found)
}

func TestRepackValidation(t *testing.T) {
	p := testPlanner(testCatalogPOIs(), DefaultEngineConfig())

	cases := map[string]RepackRequest{
		"date outside trip": func() RepackRequest {
			r := testRepackRequest()
			r.Date = testDate.AddDate(0, 0, 7)
			return r
		}(),
		"unknown action": testRepackRequest(domain.FeedbackAction{Type: "shout_into_void"}),
		"remove without place": testRepackRequest(domain.FeedbackAction{Type: domain.ActionRemoveItem}),
		"edit time without window": testRepackRequest(domain.FeedbackAction{Type: domain.ActionEditTime}),
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Repack(context.Background(), req)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}
