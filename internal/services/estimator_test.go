package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"itinerary-service/internal/adapters/cache"
	"itinerary-service/internal/adapters/routes"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var departAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestEstimateHeuristicWithoutProvider(t *testing.T) {
	est := NewEstimator(nil, cache.NewTransferCache(30*time.Minute), time.Second)
	run := est.NewRun(0)

	from := testPOI("poi_a", "Fort", 6.9271, 79.8612, 60, 0)
	to := testPOI("poi_b", "Museum", 6.9100, 79.8610, 60, 0)

	tr := run.Estimate(context.Background(), from, to, domain.ModeDrive, departAt)

	assert.Equal(t, domain.SourceHeuristic, tr.Source)
	assert.False(t, tr.VerifyFailed)
	assert.GreaterOrEqual(t, tr.DurationMinutes, 3)
	assert.Greater(t, tr.DistanceKm, 0.0)
	assert.Equal(t, "poi_a", tr.FromPlaceID)
	assert.Equal(t, "poi_b", tr.ToPlaceID)
}

func TestEstimateFallbackWithoutCoords(t *testing.T) {
	est := NewEstimator(nil, cache.NewTransferCache(30*time.Minute), time.Second)
	run := est.NewRun(0)

	from := &domain.POI{PlaceID: "poi_a"}
	to := &domain.POI{PlaceID: "poi_b"}

	tr := run.Estimate(context.Background(), from, to, domain.ModeWalk, departAt)

	assert.Equal(t, fallbackDurationMinutes, tr.DurationMinutes)
	assert.Equal(t, fallbackDistanceKm, tr.DistanceKm)
	assert.Equal(t, domain.SourceHeuristic, tr.Source)
	assert.False(t, tr.VerifyFailed)
}

func TestEstimateWalkSlowerThanDrive(t *testing.T) {
	assert.Greater(t,
		heuristicMinutes(5, domain.ModeWalk),
		heuristicMinutes(5, domain.ModeDrive))
}

func TestEstimateLiveResultIsCachedPerBucket(t *testing.T) {
	provider := routes.NewMockRouteProvider()
	from := testPOI("poi_a", "Fort", 6.9271, 79.8612, 60, 0)
	to := testPOI("poi_b", "Museum", 6.9100, 79.8610, 60, 0)
	provider.Set(*from.Coords, *to.Coords, ports.RouteResult{DurationMinutes: 17, DistanceKm: 9.5})

	est := NewEstimator(provider, cache.NewTransferCache(30*time.Minute), time.Second)
	run := est.NewRun(10)

	first := run.Estimate(context.Background(), from, to, domain.ModeDrive, departAt)
	// Same 15-minute departure bucket: must come from the cache.
	second := run.Estimate(context.Background(), from, to, domain.ModeDrive, departAt.Add(10*time.Minute))

	require.Equal(t, 1, provider.Calls)
	assert.Equal(t, domain.SourceRoutesLive, first.Source)
	assert.Equal(t, 17, first.DurationMinutes)
	assert.Equal(t, 9.5, first.DistanceKm)
	assert.Equal(t, first.DurationMinutes, second.DurationMinutes)
	assert.Equal(t, domain.SourceRoutesLive, second.Source)
}

func TestEstimateNewBucketCallsProviderAgain(t *testing.T) {
	provider := routes.NewMockRouteProvider()
	from := testPOI("poi_a", "Fort", 6.9271, 79.8612, 60, 0)
	to := testPOI("poi_b", "Museum", 6.9100, 79.8610, 60, 0)
	provider.Set(*from.Coords, *to.Coords, ports.RouteResult{DurationMinutes: 17, DistanceKm: 9.5})

	est := NewEstimator(provider, cache.NewTransferCache(30*time.Minute), time.Second)
	run := est.NewRun(10)

	run.Estimate(context.Background(), from, to, domain.ModeDrive, departAt)
	run.Estimate(context.Background(), from, to, domain.ModeDrive, departAt.Add(20*time.Minute))

	assert.Equal(t, 2, provider.Calls)
}

func TestEstimateBudgetExhaustionDegrades(t *testing.T) {
	provider := routes.NewMockRouteProvider()
	from := testPOI("poi_a", "Fort", 6.9271, 79.8612, 60, 0)
	b := testPOI("poi_b", "Museum", 6.9100, 79.8610, 60, 0)
	c := testPOI("poi_c", "Temple", 6.9500, 79.8700, 60, 0)
	provider.Set(*from.Coords, *b.Coords, ports.RouteResult{DurationMinutes: 17, DistanceKm: 9.5})
	provider.Set(*from.Coords, *c.Coords, ports.RouteResult{DurationMinutes: 21, DistanceKm: 11})

	est := NewEstimator(provider, cache.NewTransferCache(30*time.Minute), time.Second)
	run := est.NewRun(1)

	first := run.Estimate(context.Background(), from, b, domain.ModeDrive, departAt)
	second := run.Estimate(context.Background(), from, c, domain.ModeDrive, departAt)

	assert.Equal(t, domain.SourceRoutesLive, first.Source)
	assert.False(t, first.VerifyFailed)

	assert.Equal(t, domain.SourceHeuristic, second.Source)
	assert.True(t, second.VerifyFailed)
	assert.Equal(t, 1, provider.Calls)
}

func TestEstimateProviderErrorKeepsHeuristic(t *testing.T) {
	provider := routes.NewMockRouteProvider()
	provider.Err = errors.New("routes api unavailable")

	est := NewEstimator(provider, cache.NewTransferCache(30*time.Minute), time.Second)
	run := est.NewRun(10)

	from := testPOI("poi_a", "Fort", 6.9271, 79.8612, 60, 0)
	to := testPOI("poi_b", "Museum", 6.9100, 79.8610, 60, 0)

	tr := run.Estimate(context.Background(), from, to, domain.ModeDrive, departAt)

	assert.True(t, tr.VerifyFailed)
	assert.Equal(t, domain.SourceHeuristic, tr.Source)
	assert.GreaterOrEqual(t, tr.DurationMinutes, 3)
}

func TestEstimateSequence(t *testing.T) {
	est := NewEstimator(nil, cache.NewTransferCache(30*time.Minute), time.Second)
	run := est.NewRun(0)

	stops := []*domain.POI{
		testPOI("poi_a", "Fort", 6.9271, 79.8612, 60, 0),
		testPOI("poi_b", "Museum", 6.9100, 79.8610, 60, 0),
		testPOI("poi_c", "Temple", 6.9500, 79.8700, 60, 0),
	}

	legs := run.EstimateSequence(context.Background(), stops, domain.ModeDrive, departAt)

	require.Len(t, legs, 2)
	assert.Equal(t, "poi_a", legs[0].FromPlaceID)
	assert.Equal(t, "poi_b", legs[0].ToPlaceID)
	assert.Equal(t, "poi_b", legs[1].FromPlaceID)
	assert.Equal(t, "poi_c", legs[1].ToPlaceID)
}
