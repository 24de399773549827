package services

import "fidha_server/models"

// Overlap computes the Jaccard index of two tag lists: |A∩B| / |A∪B|.
// Duplicates are collapsed, order is irrelevant. Two empty lists count as a
// full match — an empty category should not penalize the score. Exactly one
// empty list scores 0.
func Overlap(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, tag := range a {
		setA[tag] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tag := range b {
		setB[tag] = struct{}{}
	}

	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// ScoreWeights holds the per-category weights of the match score. The four
// weights must sum to 1.0 so the combined score stays in [0,1].
type ScoreWeights struct {
	Clothing    float64
	Accessories float64
	Activity    float64
	Colors      float64
}

// DefaultScoreWeights returns the product-tuned category weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Clothing:    0.40,
		Accessories: 0.25,
		Activity:    0.20,
		Colors:      0.15,
	}
}

// Sum returns the total of all four weights.
func (w ScoreWeights) Sum() float64 {
	return w.Clothing + w.Accessories + w.Activity + w.Colors
}

// ScoreDescriptions combines the per-category overlaps of two outfit
// descriptions into one weighted score in [0,1].
func ScoreDescriptions(a, b *models.OutfitDescription, weights ScoreWeights) float64 {
	return Overlap(a.Clothing, b.Clothing)*weights.Clothing +
		Overlap(a.Accessories, b.Accessories)*weights.Accessories +
		Overlap(a.Activity, b.Activity)*weights.Activity +
		Overlap(a.Colors, b.Colors)*weights.Colors
}
