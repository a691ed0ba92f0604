package spectral

import (
	"math/cmplx"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/mjibson/go-dsp/fft"
)

// MaxModulationPoints bounds the DFT run over a band envelope
const MaxModulationPoints = 50

// ModulationPeak is the dominant amplitude-modulation component of an envelope
type ModulationPeak struct {
	RateHz    float64 `json:"rate_hz"`
	Magnitude float64 `json:"magnitude"`
}

// ModulationSpectrum runs a DFT over at most MaxModulationPoints leading
// envelope values (sampled at frameRate Hz, mean removed) and returns the
// strongest non-DC component. Envelopes shorter than 4 points, or flat
// ones, return a zero peak.
func ModulationSpectrum(envelope []float64, frameRate float64) ModulationPeak {
	n := min(len(envelope), MaxModulationPoints)
	if n < 4 || frameRate <= 0 {
		return ModulationPeak{}
	}

	segment := make([]float64, n)
	mean := common.Mean(envelope[:n])
	for i := range segment {
		segment[i] = envelope[i] - mean
	}

	coeffs := fft.FFTReal(segment)

	var peak ModulationPeak
	for k := 1; k <= n/2; k++ {
		mag := cmplx.Abs(coeffs[k]) / float64(n)
		if mag > peak.Magnitude {
			peak = ModulationPeak{
				RateHz:    float64(k) * frameRate / float64(n),
				Magnitude: mag,
			}
		}
	}
	if peak.Magnitude < common.Epsilon {
		return ModulationPeak{}
	}
	return peak
}
