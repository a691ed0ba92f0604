package filters

import (
	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// DefaultPreEmphasis is the coefficient used ahead of LPC analysis
const DefaultPreEmphasis = 0.97

// PreEmphasis is the first-order high-pass y[n] = x[n] - α*x[n-1]. It
// flattens the spectral tilt of voiced speech before linear prediction.
//
// References:
//   - L.R. Rabiner, R.W. Schafer, "Digital Processing of Speech Signals",
//     Prentice-Hall, 1978, Chapter 4
type PreEmphasis struct {
	coefficient float64
	lastSample  float64
}

// NewPreEmphasis creates a filter with coefficient α in [0, 1)
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if coefficient < 0 || coefficient >= 1 {
		return nil, common.NewConfigError("pre_emphasis", coefficient, "must be in [0, 1)")
	}
	return &PreEmphasis{coefficient: coefficient}, nil
}

// Process filters one sample, carrying state across calls
func (pe *PreEmphasis) Process(input float64) float64 {
	output := input - pe.coefficient*pe.lastSample
	pe.lastSample = input
	return output
}

// ProcessBuffer filters a block, continuing from the previous block
func (pe *PreEmphasis) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = pe.Process(sample)
	}
	return output
}

// Reset clears the filter state
func (pe *PreEmphasis) Reset() {
	pe.lastSample = 0
}

// Coefficient returns α
func (pe *PreEmphasis) Coefficient() float64 {
	return pe.coefficient
}

// ApplyPreEmphasis filters an independent frame; the sample before the
// frame is taken as zero.
func ApplyPreEmphasis(frame []float64, coefficient float64) []float64 {
	output := make([]float64, len(frame))
	prev := 0.0
	for i, sample := range frame {
		output[i] = sample - coefficient*prev
		prev = sample
	}
	return output
}
