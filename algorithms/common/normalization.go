package common

import (
	"math"
)

// NormalizeDB scales signal so its RMS sits at targetDB (dBFS) and clips
// the result to [-1, 1]. Silent input is returned unchanged.
func NormalizeDB(signal []float64, targetDB float64) []float64 {
	normalized := make([]float64, len(signal))
	copy(normalized, signal)

	currentRMS := RMS(signal)
	if currentRMS < Epsilon {
		return normalized
	}

	scaleFactor := math.Pow(10.0, targetDB/20.0) / currentRMS
	for i, val := range normalized {
		normalized[i] = Clamp(val*scaleFactor, -1.0, 1.0)
	}

	return normalized
}

// PeakNormalize scales signal so its largest magnitude equals 1
func PeakNormalize(signal []float64) []float64 {
	normalized := make([]float64, len(signal))
	peak := Peak(signal)
	if peak < Epsilon {
		copy(normalized, signal)
		return normalized
	}

	for i, val := range signal {
		normalized[i] = val / peak
	}
	return normalized
}
