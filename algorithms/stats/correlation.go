package stats

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// AutoCorrelation returns the biased autocorrelation r[0..maxLag] of signal
func AutoCorrelation(signal []float64, maxLag int) []float64 {
	if maxLag < 0 {
		return nil
	}
	r := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag && lag < len(signal); lag++ {
		r[lag] = floats.Dot(signal[:len(signal)-lag], signal[lag:])
	}
	return r
}

// NormalizedCrossCorrelation correlates signal with itself shifted by lag,
// normalized by the energy of both overlapping segments. The result lies in
// [-1, 1]; silent or non-overlapping segments return 0.
func NormalizedCrossCorrelation(signal []float64, lag int) float64 {
	if lag < 0 || lag >= len(signal) {
		return 0.0
	}
	head := signal[:len(signal)-lag]
	tail := signal[lag:]

	energy := floats.Dot(head, head) * floats.Dot(tail, tail)
	if energy < common.Epsilon*common.Epsilon {
		return 0.0
	}
	return floats.Dot(head, tail) / math.Sqrt(energy)
}
