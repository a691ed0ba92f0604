// Package resample converts sample rates with a Lanczos windowed-sinc kernel.
package resample

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// HalfWidth is the kernel support on each side of the source position
const HalfWidth = 16

// Lanczos resamples samples from fromRate to toRate. Each output sample is
// a kernel-weighted sum over the 2*HalfWidth nearest source samples,
// normalized by the weights actually used so edges stay unbiased.
// The cost is O(len * HalfWidth); it is meant for whole clips, not streams.
func Lanczos(samples []float64, fromRate, toRate int) ([]float64, error) {
	if err := common.RequirePositive("from_rate", fromRate); err != nil {
		return nil, err
	}
	if err := common.RequirePositive("to_rate", toRate); err != nil {
		return nil, err
	}

	if fromRate == toRate {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out, nil
	}

	ratio := float64(toRate) / float64(fromRate)
	outLen := int(float64(len(samples)) * ratio)
	out := make([]float64, outLen)

	for i := range out {
		srcPos := float64(i) / ratio
		srcIdx := int(srcPos)

		lo := max(srcIdx-HalfWidth, 0)
		hi := min(srcIdx+HalfWidth, len(samples))

		sum, weightSum := 0.0, 0.0
		for j := lo; j < hi; j++ {
			w := kernel(float64(j) - srcPos)
			sum += samples[j] * w
			weightSum += w
		}

		if math.Abs(weightSum) > common.Epsilon {
			out[i] = sum / weightSum
		}
	}

	return out, nil
}

// Float32 is Lanczos for float32 PCM
func Float32(samples []float32, fromRate, toRate int) ([]float32, error) {
	out, err := Lanczos(common.Float32To64(samples), fromRate, toRate)
	if err != nil {
		return nil, err
	}
	return common.Float64To32(out), nil
}

// kernel is sinc(d) * sinc(d/HalfWidth), zero outside |d| < HalfWidth
func kernel(d float64) float64 {
	if math.Abs(d) >= HalfWidth {
		return 0.0
	}
	return sinc(d) * sinc(d/HalfWidth)
}

// sinc is the normalized sinc, sin(pi x)/(pi x)
func sinc(x float64) float64 {
	if math.Abs(x) < 1e-9 {
		return 1.0
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
