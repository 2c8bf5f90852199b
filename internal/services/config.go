package services

import (
	"fmt"
	"itinerary-service/internal/domain"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RankWeights defines the coefficients for each ranking sub-score.
// The defaults sum to 1.0; callers tune them via the engine config file.
type RankWeights struct {
	PreferenceFit float64 `yaml:"preference_fit"`
	TimeFit       float64 `yaml:"time_fit"`
	BudgetFit     float64 `yaml:"budget_fit"`
	Diversity     float64 `yaml:"diversity"`
	HealthFit     float64 `yaml:"health_fit"`
}

// RadiusByPace maps each pace to the candidate search radius around the base
// place, in kilometers.
type RadiusByPace struct {
	LightKm    float64 `yaml:"light_km"`
	ModerateKm float64 `yaml:"moderate_km"`
	IntenseKm  float64 `yaml:"intense_km"`
}

// ForPace returns the radius for a pace.
func (r RadiusByPace) ForPace(p domain.Pace) float64 {
	switch p {
	case domain.PaceLight:
		return r.LightKm
	case domain.PaceIntense:
		return r.IntenseKm
	}
	return r.ModerateKm
}

// EngineConfig aggregates every injected numeric parameter of the pipeline.
// The core treats these as inputs, never as hardcoded constants.
type EngineConfig struct {
	Weights        RankWeights  `yaml:"weights"`
	Radius         RadiusByPace `yaml:"radius_by_pace"`
	MaxItemsPerDay int          `yaml:"max_items_per_day"`

	// Break insertion: after this many continuous activity minutes a break of
	// BreakMinutes is placed into the next idle gap.
	BreakAfterMinutes int `yaml:"break_after_minutes"`
	BreakMinutes      int `yaml:"break_minutes"`

	TransferCacheTTL time.Duration `yaml:"transfer_cache_ttl"`
	VerifyCallBudget int           `yaml:"verify_call_budget"`
	VerifyTimeout    time.Duration `yaml:"verify_timeout"`
	StrictVerify     bool          `yaml:"strict_verify"`

	MaxTripDays     int    `yaml:"max_trip_days"`
	DefaultCurrency string `yaml:"default_currency"`
}

// DefaultEngineConfig returns the baseline tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Weights: RankWeights{
			PreferenceFit: 0.30,
			TimeFit:       0.20,
			BudgetFit:     0.20,
			Diversity:     0.15,
			HealthFit:     0.15,
		},
		Radius: RadiusByPace{
			LightKm:    25,
			ModerateKm: 50,
			IntenseKm:  80,
		},
		MaxItemsPerDay:    4,
		BreakAfterMinutes: 180,
		BreakMinutes:      30,
		TransferCacheTTL:  30 * time.Minute,
		VerifyCallBudget:  30,
		VerifyTimeout:     8 * time.Second,
		StrictVerify:      false,
		MaxTripDays:       14,
		DefaultCurrency:   "LKR",
	}
}

// LoadEngineConfig overlays the YAML file at path onto the defaults.
// A missing file is not an error; the defaults apply.
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read engine config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse engine config %q: %w", path, err)
	}

	return cfg, nil
}
