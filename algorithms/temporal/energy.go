package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// FrameEnergyDB returns the mean-square energy of frame in dB with a 1e-10
// floor, so a silent frame reads -100 dB.
func FrameEnergyDB(frame []float64) float64 {
	if len(frame) == 0 {
		return 10 * math.Log10(common.Epsilon)
	}
	sumSquares := 0.0
	for _, v := range frame {
		sumSquares += v * v
	}
	return 10 * math.Log10(sumSquares/float64(len(frame))+common.Epsilon)
}

// ZeroCrossingRate returns sign changes per sample. Low values indicate
// voiced speech, high values fricatives or noise.
func ZeroCrossingRate(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}
