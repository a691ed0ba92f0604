package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Epsilon guards normalization denominators across the analyzers
const Epsilon = 1e-10

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return math.Sqrt(stat.Variance(data, nil))
}

// Median returns the empirical median without modifying data
func Median(data []float64) float64 {
	return Percentile(data, 0.5)
}

// Percentile calculates the p-th percentile (p between 0 and 1)
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// Peak returns the maximum absolute sample value
func Peak(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// IsSilent reports whether every sample is exactly zero
func IsSilent(data []float64) bool {
	for _, v := range data {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// NumFrames returns how many hop-spaced frames cover a signal. A signal
// shorter than one frame still yields a single partial frame.
func NumFrames(length, frameSize, hopSize int) int {
	if length <= 0 || frameSize <= 0 || hopSize <= 0 {
		return 0
	}
	if length < frameSize {
		return 1
	}
	return (length-frameSize)/hopSize + 1
}

// Frame returns the i-th frame of signal, truncated at the signal end
func Frame(signal []float64, i, frameSize, hopSize int) []float64 {
	start := i * hopSize
	if start >= len(signal) {
		return nil
	}
	end := min(start+frameSize, len(signal))
	return signal[start:end]
}

// ParabolicInterpolation returns the vertex offset of the parabola through
// three equally spaced points, in the range [-1, 1].
func ParabolicInterpolation(left, center, right float64) float64 {
	denom := left - 2*center + right
	if math.Abs(denom) < Epsilon {
		return 0.0
	}
	return Clamp(0.5*(left-right)/denom, -1, 1)
}

// Float32To64 converts PCM samples to the float64 used by the kernels
func Float32To64(samples []float32) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}

// Float64To32 converts kernel output back to float32 PCM
func Float64To32(samples []float64) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s)
	}
	return out
}
