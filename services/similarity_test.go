package services

import (
	"math"
	"testing"

	"fidha_server/models"
)

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{"both empty", nil, nil, 1},
		{"first empty", nil, []string{"dress"}, 0},
		{"second empty", []string{"dress"}, nil, 0},
		{"identical", []string{"dress", "hat"}, []string{"dress", "hat"}, 1},
		{"disjoint", []string{"dress"}, []string{"jacket"}, 0},
		{"partial overlap", []string{"dress", "hat"}, []string{"hat", "scarf"}, 1.0 / 3.0},
		{"duplicates collapsed", []string{"dress", "dress"}, []string{"dress"}, 1},
		{"order irrelevant", []string{"hat", "dress"}, []string{"dress", "hat"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlap(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Overlap(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestOverlap_Symmetry(t *testing.T) {
	a := []string{"dress", "hat", "scarf"}
	b := []string{"hat", "jacket"}
	if Overlap(a, b) != Overlap(b, a) {
		t.Error("Overlap is not symmetric")
	}
}

func TestDefaultScoreWeights_SumToOne(t *testing.T) {
	weights := DefaultScoreWeights()
	if math.Abs(weights.Sum()-1.0) > 1e-9 {
		t.Errorf("weights sum to %f, want 1.0", weights.Sum())
	}
}

func TestScoreDescriptions_IdenticalIsOne(t *testing.T) {
	description := models.OutfitDescription{
		Clothing:    []string{"dress", "jacket"},
		Accessories: []string{"sunglasses"},
		Activity:    []string{"reading"},
		Colors:      []string{"red", "black"},
	}
	duplicate := description

	score := ScoreDescriptions(&description, &duplicate, DefaultScoreWeights())
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("identical descriptions scored %f, want 1.0", score)
	}
}

func TestScoreDescriptions_EmptyCategoriesDoNotPenalize(t *testing.T) {
	// Only clothing and colors filled in; the two empty categories count as
	// full matches, so identical non-empty categories still score 1.0.
	a := models.OutfitDescription{Clothing: []string{"dress"}, Colors: []string{"red"}}
	b := models.OutfitDescription{Clothing: []string{"dress"}, Colors: []string{"red"}}

	score := ScoreDescriptions(&a, &b, DefaultScoreWeights())
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("score = %f, want 1.0", score)
	}
}

func TestScoreDescriptions_WeightedCombination(t *testing.T) {
	// Clothing matches fully (0.40), colors are disjoint (0), accessories
	// and activity are empty on both sides (0.25 + 0.20).
	a := models.OutfitDescription{Clothing: []string{"dress"}, Colors: []string{"red"}}
	b := models.OutfitDescription{Clothing: []string{"dress"}, Colors: []string{"blue"}}

	score := ScoreDescriptions(&a, &b, DefaultScoreWeights())
	want := 0.40 + 0.25 + 0.20
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("score = %f, want %f", score, want)
	}
}
