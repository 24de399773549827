package services

import (
	"math"
	"testing"
)

func TestDistanceMeters_Symmetry(t *testing.T) {
	coords := [][4]float64{
		{37.7749, -122.4194, 37.7750, -122.4195},
		{0, 0, 10, 10},
		{51.5074, -0.1278, 48.8566, 2.3522},
		{-33.8688, 151.2093, 35.6762, 139.6503},
	}

	for _, c := range coords {
		forward := DistanceMeters(c[0], c[1], c[2], c[3])
		backward := DistanceMeters(c[2], c[3], c[0], c[1])
		if math.Abs(forward-backward) > 1e-9 {
			t.Errorf("distance not symmetric: %f vs %f", forward, backward)
		}
	}
}

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	if d := DistanceMeters(37.7749, -122.4194, 37.7749, -122.4194); d != 0 {
		t.Errorf("expected 0 for identical coordinates, got %f", d)
	}
}

func TestDistanceMeters_KnownShortDistance(t *testing.T) {
	// One street apart in San Francisco, roughly 14 meters.
	d := DistanceMeters(37.7749, -122.4194, 37.7750, -122.4195)
	if d < 10 || d > 20 {
		t.Errorf("expected ~14m, got %f", d)
	}
}

func TestDistanceMeters_KnownLongDistance(t *testing.T) {
	// London to Paris, roughly 343 km.
	d := DistanceMeters(51.5074, -0.1278, 48.8566, 2.3522)
	if d < 330000 || d > 350000 {
		t.Errorf("expected ~343km, got %f", d)
	}
}

func TestWithinRadius(t *testing.T) {
	tests := []struct {
		name   string
		lat2   float64
		radius float64
		want   bool
	}{
		{"same point", 37.7749, 100, true},
		{"~14m apart within 100m", 37.7750, 100, true},
		{"~222m apart beyond 100m", 37.7769, 100, false},
		{"~222m apart within 300m", 37.7769, 300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinRadius(37.7749, -122.4194, tt.lat2, -122.4194, tt.radius)
			if got != tt.want {
				t.Errorf("WithinRadius = %v, want %v", got, tt.want)
			}
		})
	}
}
