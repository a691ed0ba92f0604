package psychoacoustic

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/spectral"
)

const (
	roughnessScale      = 0.25
	roughnessPeakRateHz = 70.0
	roughnessWidthHz    = 40.0
	minRoughnessFrames  = 4
)

// roughnessWeight peaks at 70 Hz modulation, where roughness is strongest
func roughnessWeight(rateHz float64) float64 {
	d := (rateHz - roughnessPeakRateHz) / roughnessWidthHz
	return math.Exp(-0.5 * d * d)
}

// Roughness estimates asper from the band envelopes of specific loudness.
// envelopes[b] is N'_b across frames sampled at frameRate.
//
// The envelopes can only resolve modulation up to frameRate/2, which at a
// 512-sample hop is well below the 70 Hz peak of roughnessWeight (15.6 Hz
// at 16 kHz, where the weight is about 0.4). The result is a relative
// modulation index on the asper scale, not a calibrated asper value.
func Roughness(envelopes [][]float64, frameRate float64) float64 {
	total := 0.0
	for _, envelope := range envelopes {
		if len(envelope) < minRoughnessFrames {
			return 0.0
		}

		mean := common.Mean(envelope)
		if mean < common.Epsilon {
			continue
		}

		variation := 0.0
		for i := 1; i < len(envelope); i++ {
			variation += math.Abs(envelope[i] - envelope[i-1])
		}
		depth := variation / float64(len(envelope)-1) / mean

		peak := spectral.ModulationSpectrum(envelope, frameRate)
		total += depth * roughnessWeight(peak.RateHz) * mean
	}
	return roughnessScale * total
}
