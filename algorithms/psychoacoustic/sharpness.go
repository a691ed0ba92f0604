package psychoacoustic

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const sharpnessScale = 0.11

// sharpnessWeight is Zwicker's g(z), flat to 15 Bark then rising
func sharpnessWeight(z float64) float64 {
	if z <= 15 {
		return 1.0
	}
	return 0.066 * math.Exp(0.171*z)
}

// Sharpness returns the acum value of one frame's specific loudness, 0 when
// the frame is inaudible.
func (a *Analyzer) Sharpness(specific []float64) float64 {
	total := floats.Sum(specific)
	if total <= 0 {
		return 0.0
	}

	weighted := 0.0
	for b, n := range specific {
		z := a.barkCenters[b]
		weighted += n * sharpnessWeight(z) * z
	}
	return sharpnessScale * weighted / total
}
