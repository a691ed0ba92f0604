package stats

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// MomentResult holds the first four standardized moments of a weighted distribution
type MomentResult struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess
}

// WeightedMoments treats weights as an unnormalized probability mass over
// values. A zero total weight, or a distribution with no spread, returns zeros
// for the moments it cannot define.
func WeightedMoments(values, weights []float64) MomentResult {
	n := min(len(values), len(weights))
	total := 0.0
	for i := range n {
		total += weights[i]
	}
	if total < common.Epsilon {
		return MomentResult{}
	}

	mean := 0.0
	for i := range n {
		mean += values[i] * weights[i]
	}
	mean /= total

	var m2, m3, m4 float64
	for i := range n {
		d := values[i] - mean
		d2 := d * d
		w := weights[i] / total
		m2 += d2 * w
		m3 += d2 * d * w
		m4 += d2 * d2 * w
	}

	result := MomentResult{Mean: mean, StdDev: math.Sqrt(m2)}
	if result.StdDev < common.Epsilon {
		return result
	}

	result.Skewness = m3 / (m2 * result.StdDev)
	result.Kurtosis = m4/(m2*m2) - 3.0
	return result
}
