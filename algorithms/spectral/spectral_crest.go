package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Crest returns the peak-to-RMS ratio of the bins: large for a few strong
// harmonics, near 1 for flat noise. Silent spectra return 0.
func Crest(s *Spectrum) float64 {
	if s == nil || s.Silent || len(s.Bins) == 0 {
		return 0.0
	}

	rms := math.Sqrt(floats.Dot(s.Bins, s.Bins) / float64(len(s.Bins)))
	if rms == 0 {
		return 0.0
	}
	return floats.Max(s.Bins) / rms
}
