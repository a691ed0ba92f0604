package stats

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// NormalizedEntropy returns the Shannon entropy of a non-negative mass
// function divided by log2(len(mass)), so a uniform distribution scores 1
// and a single spike scores 0.
func NormalizedEntropy(mass []float64) float64 {
	if len(mass) < 2 {
		return 0.0
	}

	total := 0.0
	for _, m := range mass {
		if m > 0 {
			total += m
		}
	}
	if total < common.Epsilon {
		return 0.0
	}

	entropy := 0.0
	for _, m := range mass {
		if m <= 0 {
			continue
		}
		p := m / total
		entropy -= p * math.Log2(p)
	}

	return common.Clamp(entropy/math.Log2(float64(len(mass))), 0.0, 1.0)
}
