package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/stats"
)

// slopeFloor drops bins too weak to place on a log axis
const slopeFloor = 1e-10

// Slope returns the spectral tilt: the least-squares slope of log10 power
// against log10 frequency over bins above slopeFloor. Breathy and soft
// voices tilt less steeply than pressed ones. Silent spectra return 0.
func Slope(s *Spectrum) float64 {
	if s == nil || s.Silent {
		return 0.0
	}

	var x, y []float64
	for k, p := range s.Bins {
		f := s.Frequency(k)
		if p <= slopeFloor || f <= 0 {
			continue
		}
		x = append(x, math.Log10(f))
		y = append(y, math.Log10(p))
	}
	return stats.LinearRegression(x, y).Slope
}
