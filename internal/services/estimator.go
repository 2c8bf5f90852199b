package services

import (
	"context"
	"itinerary-service/internal/adapters/cache"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
	"log"
	"math"
	"time"
)

// Heuristic speeds per mode, km/h. Walking is strictly slower per km than
// driving; the relation feeds both estimates and the hard transfer rule.
var modeSpeedKmh = map[domain.TransferMode]float64{
	domain.ModeDrive:   40.0,
	domain.ModeWalk:    4.5,
	domain.ModeBike:    15.0,
	domain.ModeTransit: 25.0,
}

// Fallback figures when neither endpoint carries coordinates.
const (
	fallbackDistanceKm      = 3.5
	fallbackDurationMinutes = 12
	minTransferMinutes      = 3
)

// heuristicMinutes converts a straight-line distance into a plausible travel
// duration for a mode.
func heuristicMinutes(distanceKm float64, mode domain.TransferMode) int {
	speed := modeSpeedKmh[domain.NormalizeMode(string(mode))]
	minutes := int(math.Ceil(distanceKm / speed * 60))
	if minutes < minTransferMinutes {
		minutes = minTransferMinutes
	}
	return minutes
}

// Estimator computes travel time and distance between POIs. The heuristic
// path is always available; the live path is used only when a provider is
// configured, going through the shared TTL cache and a per-run call budget.
//
// The estimator never fails: degraded results surface through the Source and
// VerifyFailed fields of the returned Transfer.
type Estimator struct {
	provider ports.RouteProvider // nil disables live verification
	cache    *cache.TransferCache
	timeout  time.Duration
}

func NewEstimator(provider ports.RouteProvider, transferCache *cache.TransferCache, timeout time.Duration) *Estimator {
	return &Estimator{
		provider: provider,
		cache:    transferCache,
		timeout:  timeout,
	}
}

// RunEstimator scopes one pipeline run's external call budget. The budget is
// per request, so it needs no synchronization; the cache stays shared.
type RunEstimator struct {
	est       *Estimator
	remaining int
}

// NewRun starts a pipeline run with a fresh call budget.
func (e *Estimator) NewRun(callBudget int) *RunEstimator {
	return &RunEstimator{est: e, remaining: callBudget}
}

// Estimate returns the transfer segment from one POI to another. The result
// always carries a duration and distance; Source records whether they came
// from the live provider (possibly cached) or the heuristic.
func (r *RunEstimator) Estimate(
	ctx context.Context,
	from, to *domain.POI,
	mode domain.TransferMode,
	departAt time.Time,
) domain.Transfer {
	mode = domain.NormalizeMode(string(mode))

	t := domain.Transfer{
		FromPlaceID: from.PlaceID,
		ToPlaceID:   to.PlaceID,
		Mode:        mode,
		Source:      domain.SourceHeuristic,
	}

	if from.Coords != nil && to.Coords != nil {
		t.DistanceKm = from.Coords.DistanceKm(*to.Coords)
		t.DurationMinutes = heuristicMinutes(t.DistanceKm, mode)
	} else {
		t.DistanceKm = fallbackDistanceKm
		t.DurationMinutes = fallbackDurationMinutes
	}

	if r.est.provider == nil || from.Coords == nil || to.Coords == nil {
		return t
	}

	key := cache.NewTransferKey(from.PlaceID, to.PlaceID, mode, departAt)
	if entry, ok := r.est.cache.Get(key); ok {
		t.DurationMinutes = entry.DurationMinutes
		t.DistanceKm = entry.DistanceKm
		t.Source = entry.Source
		return t
	}

	if r.remaining <= 0 {
		t.VerifyFailed = true
		return t
	}
	r.remaining--

	callCtx, cancel := context.WithTimeout(ctx, r.est.timeout)
	defer cancel()

	res, err := r.est.provider.Route(callCtx, *from.Coords, *to.Coords, mode, departAt)
	if err != nil {
		// Degrade to the heuristic values already in t; visible via flags only.
		log.Printf("transfer verify failed from=%s to=%s mode=%s err=%v", from.PlaceID, to.PlaceID, mode, err)
		t.VerifyFailed = true
		return t
	}

	r.est.cache.Put(key, cache.TransferEntry{
		DurationMinutes: res.DurationMinutes,
		DistanceKm:      res.DistanceKm,
		Source:          domain.SourceRoutesLive,
	})

	t.DurationMinutes = res.DurationMinutes
	t.DistanceKm = res.DistanceKm
	t.Source = domain.SourceRoutesLive
	return t
}

// EstimateSequence verifies an ordered day sequence in one pass, applying the
// same cache and budget rules per edge. Departure advances by each leg's
// duration plus the visit time at the reached stop.
func (r *RunEstimator) EstimateSequence(
	ctx context.Context,
	stops []*domain.POI,
	mode domain.TransferMode,
	departAt time.Time,
) []domain.Transfer {
	if len(stops) < 2 {
		return nil
	}

	out := make([]domain.Transfer, 0, len(stops)-1)
	at := departAt
	for i := 1; i < len(stops); i++ {
		t := r.Estimate(ctx, stops[i-1], stops[i], mode, at)
		out = append(out, t)
		at = at.Add(time.Duration(t.DurationMinutes+stops[i].DurationMinutes) * time.Minute)
	}
	return out
}
