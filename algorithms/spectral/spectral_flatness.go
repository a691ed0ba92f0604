package spectral

import (
	"math"
)

// SpectralFlatness computes the Wiener entropy of a power spectrum. Low
// values indicate tonal content, values near 1 indicate noise.
type SpectralFlatness struct {
	minThreshold float64 // floor applied inside log() to avoid log(0)
}

// NewSpectralFlatness creates a new spectral flatness calculator
func NewSpectralFlatness() *SpectralFlatness {
	return &SpectralFlatness{
		minThreshold: 1e-10,
	}
}

// Compute returns the ratio of geometric to arithmetic mean over the
// non-zero bins of s, in [0, 1].
func (sf *SpectralFlatness) Compute(s *Spectrum) float64 {
	if s == nil || s.Silent {
		return 0.0
	}

	logSum := 0.0
	sum := 0.0
	count := 0
	for _, p := range s.Bins {
		if p <= 0 {
			continue
		}
		logSum += math.Log(math.Max(p, sf.minThreshold))
		sum += p
		count++
	}
	if count == 0 {
		return 0.0
	}

	arithmeticMean := sum / float64(count)
	if arithmeticMean <= sf.minThreshold {
		return 0.0
	}

	flatness := math.Exp(logSum/float64(count)) / arithmeticMean
	return math.Min(flatness, 1.0)
}

// Flatness computes spectral flatness with the default floor
func Flatness(s *Spectrum) float64 {
	return NewSpectralFlatness().Compute(s)
}
