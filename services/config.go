package services

import (
	"log"
	"os"
	"strconv"
	"time"
)

// MatchConfig carries the product-tunable matching parameters. The defaults
// mirror the shipped app; every value can be overridden through env vars.
type MatchConfig struct {
	RadiusMeters   float64
	TimeWindow     time.Duration
	ScoreThreshold float64
	Weights        ScoreWeights
}

// DefaultMatchConfig returns the shipped matching parameters: 100 m radius,
// 15 minute window, 0.70 score threshold.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		RadiusMeters:   100,
		TimeWindow:     15 * time.Minute,
		ScoreThreshold: 0.70,
		Weights:        DefaultScoreWeights(),
	}
}

// LoadMatchConfigFromEnv starts from the defaults and applies any
// MATCH_RADIUS_METERS, MATCH_TIME_WINDOW_MINUTES and MATCH_SCORE_THRESHOLD
// overrides found in the environment.
func LoadMatchConfigFromEnv() MatchConfig {
	cfg := DefaultMatchConfig()

	if v := os.Getenv("MATCH_RADIUS_METERS"); v != "" {
		if radius, err := strconv.ParseFloat(v, 64); err == nil && radius > 0 {
			cfg.RadiusMeters = radius
		} else {
			log.Printf("Ignoring invalid MATCH_RADIUS_METERS=%q", v)
		}
	}
	if v := os.Getenv("MATCH_TIME_WINDOW_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			cfg.TimeWindow = time.Duration(minutes) * time.Minute
		} else {
			log.Printf("Ignoring invalid MATCH_TIME_WINDOW_MINUTES=%q", v)
		}
	}
	if v := os.Getenv("MATCH_SCORE_THRESHOLD"); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil && threshold > 0 && threshold <= 1 {
			cfg.ScoreThreshold = threshold
		} else {
			log.Printf("Ignoring invalid MATCH_SCORE_THRESHOLD=%q", v)
		}
	}

	return cfg
}
