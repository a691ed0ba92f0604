package spectral

// DefaultRolloffThreshold is the cumulative energy fraction used by Rolloff
const DefaultRolloffThreshold = 0.85

// Rolloff returns the frequency below which threshold of the spectrum's
// energy lies. Silent spectra return 0.
func Rolloff(s *Spectrum, threshold float64) float64 {
	if s == nil || s.Silent || len(s.Bins) == 0 {
		return 0.0
	}

	total := s.Total()
	if total <= 0 {
		return 0.0
	}

	target := threshold * total
	cumulative := 0.0
	for k, p := range s.Bins {
		cumulative += p
		if cumulative >= target {
			return s.Frequency(k)
		}
	}
	return s.Frequency(len(s.Bins) - 1)
}
