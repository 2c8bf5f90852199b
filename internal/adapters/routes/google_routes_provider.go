package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// GoogleRoutesProvider implements RouteProvider using the Google Routes API
// computeRoutes endpoint. It performs external calls with retry/backoff; all
// caching and call budgeting live in the transfer estimator that owns it.
//
// The provider is safe for concurrent use.
type GoogleRoutesProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewGoogleRoutesProvider(apiKey string) (*GoogleRoutesProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google routes api key is empty")
	}

	return &GoogleRoutesProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://routes.googleapis.com",
	}, nil
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLng `json:"latLng"`
	} `json:"location"`
}

type computeRoutesRequest struct {
	Origin        waypoint `json:"origin"`
	Destination   waypoint `json:"destination"`
	TravelMode    string   `json:"travelMode"`
	DepartureTime string   `json:"departureTime,omitempty"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters int    `json:"distanceMeters"`
		Duration       string `json:"duration"`
	} `json:"routes"`
}

func travelMode(mode domain.TransferMode) string {
	switch mode {
	case domain.ModeWalk:
		return "WALK"
	case domain.ModeBike:
		return "BICYCLE"
	case domain.ModeTransit:
		return "TRANSIT"
	}
	return "DRIVE"
}

// Route fetches one leg from the computeRoutes endpoint.
func (g *GoogleRoutesProvider) Route(
	ctx context.Context,
	from, to domain.Coordinates,
	mode domain.TransferMode,
	departAt time.Time,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "routes.Route")(&err)

	endpoint := g.baseURL + "/directions/v2:computeRoutes"

	body := computeRoutesRequest{TravelMode: travelMode(mode)}
	body.Origin.Location.LatLng = latLng{Latitude: from.Lat, Longitude: from.Lng}
	body.Destination.Location.LatLng = latLng{Latitude: to.Lat, Longitude: to.Lng}

	// The API rejects past departure times; only DRIVE and TRANSIT accept one.
	if (mode == domain.ModeDrive || mode == domain.ModeTransit) && departAt.After(time.Now()) {
		body.DepartureTime = departAt.UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("marshal routes request: %w", err)
	}

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("routes request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded computeRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode routes response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteResult{}, errors.New("routes response contains no routes")
	}

	r := decoded.Routes[0]
	seconds, err := parseDurationSeconds(r.Duration)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("parse route duration %q: %w", r.Duration, err)
	}

	minutes := int(math.Round(float64(seconds) / 60))
	if minutes < 1 {
		minutes = 1
	}

	return ports.RouteResult{
		DurationMinutes: minutes,
		DistanceKm:      float64(r.DistanceMeters) / 1000,
	}, nil
}

// parseDurationSeconds parses the API's "123s" duration encoding.
func parseDurationSeconds(s string) (int, error) {
	trimmed := strings.TrimSuffix(s, "s")
	if trimmed == s {
		return 0, fmt.Errorf("missing seconds suffix")
	}
	return strconv.Atoi(trimmed)
}
