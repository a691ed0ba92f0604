package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// Spectrum is a one-sided power spectrum of a single frame
type Spectrum struct {
	Bins       []float64 `json:"bins"`
	BinWidthHz float64   `json:"bin_width_hz"`
	FFTSize    int       `json:"fft_size"`

	// Silent marks an all-zero spectrum produced from an empty or silent
	// frame. Statistics over a Silent spectrum are defined as zero.
	Silent bool `json:"silent"`
}

// Frequency returns the centre frequency of bin k in Hz
func (s *Spectrum) Frequency(k int) float64 {
	return float64(k) * s.BinWidthHz
}

// Total returns the summed power of all bins
func (s *Spectrum) Total() float64 {
	if len(s.Bins) == 0 {
		return 0.0
	}
	return floats.Sum(s.Bins)
}

// BandEnergy sums the power of bins whose frequency satisfies lo < f < hi.
// Pass a negative lo to include DC.
func (s *Spectrum) BandEnergy(lo, hi float64) float64 {
	energy := 0.0
	for k, p := range s.Bins {
		f := s.Frequency(k)
		if f > lo && f < hi {
			energy += p
		}
	}
	return energy
}

// DB converts every bin to decibels with a small floor
func (s *Spectrum) DB() []float64 {
	db := make([]float64, len(s.Bins))
	for k, p := range s.Bins {
		db[k] = 10 * math.Log10(p+common.Epsilon)
	}
	return db
}

// Average returns the bin-wise mean of spectra, skipping Silent ones.
// The result is Silent when no input carries signal.
func Average(spectra []*Spectrum) *Spectrum {
	z := NewSummarizer(DefaultRolloffThreshold)
	for _, s := range spectra {
		z.Add(s)
	}
	return z.Average()
}
