package spectral

import (
	"math"
)

// Flux is the half-wave-rectified L2 distance from previous to current:
// only bins whose power increased contribute. A nil previous frame gives 0.
func Flux(current, previous *Spectrum) float64 {
	if current == nil || previous == nil {
		return 0.0
	}

	n := min(len(current.Bins), len(previous.Bins))
	sum := 0.0
	for k := range n {
		if diff := current.Bins[k] - previous.Bins[k]; diff > 0 {
			sum += diff * diff
		}
	}
	return math.Sqrt(sum)
}

// SpectralFlux tracks the previous frame so flux can be computed while
// iterating frames. It is not safe for concurrent use.
type SpectralFlux struct {
	previous *Spectrum
}

// NewSpectralFlux creates a new spectral flux tracker
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Next returns the flux between s and the previously seen frame
func (sf *SpectralFlux) Next(s *Spectrum) float64 {
	flux := Flux(s, sf.previous)
	sf.previous = s
	return flux
}

// Compute returns one flux value per frame; the first is always 0
func (sf *SpectralFlux) Compute(spectra []*Spectrum) []float64 {
	flux := make([]float64, len(spectra))
	for t := 1; t < len(spectra); t++ {
		flux[t] = Flux(spectra[t], spectra[t-1])
	}
	return flux
}
