package psychoacoustic

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/spectral"
)

// Calibration of the Zwicker-style loudness model
const (
	// fullScaleDB maps a full-scale band level to roughly 96 dB SPL
	fullScaleDB   = 96.0
	loudnessScale = 0.087
	loudnessPower = 0.6
	levelFloor    = 1e-12
)

// ThresholdInQuiet returns Terhardt's absolute hearing threshold in dB SPL
func ThresholdInQuiet(hz float64) float64 {
	f := math.Max(hz, 1.0) / 1000.0
	return 3.64*math.Pow(f, -0.8) -
		6.5*math.Exp(-0.6*(f-3.3)*(f-3.3)) +
		1e-3*math.Pow(f, 4)
}

// bandLevel converts a critical band's summed power to dB SPL
func bandLevel(energy float64, fftSize int) float64 {
	return 10*math.Log10(energy/float64(fftSize)+levelFloor) + fullScaleDB
}

// specificLoudness is N' of one band: zero below the threshold in quiet,
// a compressive power law of the excitation above it.
func specificLoudness(level, threshold float64) float64 {
	if level <= threshold {
		return 0.0
	}
	excitation := math.Pow(10, (level-threshold)/20)
	return loudnessScale * (math.Pow(excitation, loudnessPower) - 1)
}

// SpecificLoudness returns N' per critical band for one spectrum
func (a *Analyzer) SpecificLoudness(s *spectral.Spectrum) []float64 {
	specific := make([]float64, a.bands.NumBands())
	if s == nil || s.Silent {
		return specific
	}

	for b, energy := range a.bands.Energies(s) {
		specific[b] = specificLoudness(bandLevel(energy, s.FFTSize), a.thresholds[b])
	}
	return specific
}
