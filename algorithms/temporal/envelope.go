package temporal

import (
	"math"
)

// Envelope provides amplitude envelope extraction
type Envelope struct{}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// ComputeRMS computes the RMS of every full frame that starts strictly
// before len(signal)-frameSize, stepping by hopSize.
func (e *Envelope) ComputeRMS(signal []float64, frameSize, hopSize int) []float64 {
	if frameSize <= 0 || hopSize <= 0 || len(signal) <= frameSize {
		return []float64{}
	}

	var envelope []float64
	for start := 0; start < len(signal)-frameSize; start += hopSize {
		sumSquares := 0.0
		for _, v := range signal[start : start+frameSize] {
			sumSquares += v * v
		}
		envelope = append(envelope, math.Sqrt(sumSquares/float64(frameSize)))
	}
	return envelope
}

// ComputePeak returns the maximum absolute value of each full frame
func (e *Envelope) ComputePeak(signal []float64, frameSize, hopSize int) []float64 {
	if frameSize <= 0 || hopSize <= 0 || len(signal) < frameSize {
		return []float64{}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	envelope := make([]float64, numFrames)
	for i := range numFrames {
		peak := 0.0
		for _, v := range signal[i*hopSize : i*hopSize+frameSize] {
			peak = math.Max(peak, math.Abs(v))
		}
		envelope[i] = peak
	}
	return envelope
}
