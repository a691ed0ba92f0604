package spectral

import (
	"github.com/RyanBlaney/sonido-voz/algorithms/stats"
)

// Moments describes the shape of a power spectrum treated as a probability
// distribution over bin frequencies.
type Moments struct {
	Centroid float64 `json:"centroid_hz" yaml:"centroid_hz"`
	Spread   float64 `json:"spread_hz" yaml:"spread_hz"`
	Skewness float64 `json:"skewness" yaml:"skewness"`
	Kurtosis float64 `json:"kurtosis" yaml:"kurtosis"` // excess
}

// ComputeMoments returns centroid, spread, skewness and excess kurtosis.
// Silent or zero-energy spectra return all zeros.
func ComputeMoments(s *Spectrum) Moments {
	if s == nil || s.Silent || len(s.Bins) == 0 {
		return Moments{}
	}

	freqs := make([]float64, len(s.Bins))
	for k := range freqs {
		freqs[k] = s.Frequency(k)
	}

	m := stats.WeightedMoments(freqs, s.Bins)
	return Moments{
		Centroid: m.Mean,
		Spread:   m.StdDev,
		Skewness: m.Skewness,
		Kurtosis: m.Kurtosis,
	}
}

// Entropy returns the Shannon entropy of the spectrum normalized by
// log2(numBins): ~1 for white noise, ~0 for a pure tone.
func Entropy(s *Spectrum) float64 {
	if s == nil || s.Silent {
		return 0.0
	}
	return stats.NormalizedEntropy(s.Bins)
}
