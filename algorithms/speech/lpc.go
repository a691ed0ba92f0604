package speech

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/stats"
)

// DefaultLPCOrder is the predictor order used for formant tracking
const DefaultLPCOrder = 12

// whiteNoiseCorrection lifts r[0] so the recursion stays stable on frames
// made of a few pure tones
const whiteNoiseCorrection = 1e-9

// LPCAnalyzer performs Linear Predictive Coding analysis.
// LPC models the vocal tract as an all-pole filter
//
//	H(z) = 1 / (1 - Σ a_k z^-k)
//
// whose resonances are the formants.
type LPCAnalyzer struct {
	order int
}

// NewLPCAnalyzer creates an analyzer of the given order; 0 selects the default
func NewLPCAnalyzer(order int) (*LPCAnalyzer, error) {
	if order == 0 {
		order = DefaultLPCOrder
	}
	if err := common.RequirePositive("lpc_order", order); err != nil {
		return nil, err
	}
	return &LPCAnalyzer{order: order}, nil
}

// Order returns the predictor order
func (lpc *LPCAnalyzer) Order() int {
	return lpc.order
}

// Coefficients returns the predictor coefficients a_1..a_p of frame using
// the Levinson-Durbin recursion on its biased autocorrelation. A frame with
// no energy yields p zeros.
func (lpc *LPCAnalyzer) Coefficients(frame []float64) []float64 {
	p := lpc.order
	r := stats.AutoCorrelation(frame, p)
	if len(frame) == 0 || math.Abs(r[0]) < common.Epsilon {
		return make([]float64, p)
	}
	r[0] *= 1 + whiteNoiseCorrection

	a := make([]float64, p)
	prev := make([]float64, p)
	energy := r[0]

	for i := range p {
		k := r[i+1]
		for j := range i {
			k -= prev[j] * r[i-j]
		}
		k /= energy

		a[i] = k
		for j := range i {
			a[j] = prev[j] - k*prev[i-1-j]
		}

		energy *= 1 - k*k
		copy(prev, a)

		if energy <= 0 {
			break
		}
	}

	return a
}

// FrequencyResponse evaluates |H| at points frequencies f_i = i*sr/2/points
func FrequencyResponse(coeffs []float64, sampleRate, points int) (freqs, magnitudes []float64) {
	freqs = make([]float64, points)
	magnitudes = make([]float64, points)
	if points <= 0 || sampleRate <= 0 {
		return freqs, magnitudes
	}

	for i := range points {
		freq := float64(i) * float64(sampleRate) / 2.0 / float64(points)
		omega := 2 * math.Pi * freq / float64(sampleRate)

		re, im := 1.0, 0.0
		for k, c := range coeffs {
			angle := -float64(k+1) * omega
			re -= c * math.Cos(angle)
			im -= c * math.Sin(angle)
		}

		freqs[i] = freq
		magnitudes[i] = 1.0 / math.Sqrt(re*re+im*im+common.Epsilon)
	}
	return freqs, magnitudes
}
