package tonal

import (
	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/stats"
	"gonum.org/v1/gonum/floats"
)

// PitchStatistics summarizes the voiced part of a pitch track
type PitchStatistics struct {
	Mean           float64 `json:"mean" yaml:"mean"`
	Std            float64 `json:"std" yaml:"std"`
	Min            float64 `json:"min" yaml:"min"`
	Max            float64 `json:"max" yaml:"max"`
	Range          float64 `json:"range" yaml:"range"`
	VoicedCount    int     `json:"voiced_count" yaml:"voiced_count"`
	MeanConfidence float64 `json:"mean_confidence" yaml:"mean_confidence"`
}

// Summarize drops unvoiced frames and IQR outliers, then describes what is
// left. VoicedCount and MeanConfidence cover every voiced frame.
func Summarize(estimates []PitchEstimate) PitchStatistics {
	var freqs, confidences []float64
	for _, e := range estimates {
		if e.Voiced() {
			freqs = append(freqs, e.Frequency)
			confidences = append(confidences, e.Confidence)
		}
	}
	if len(freqs) == 0 {
		return PitchStatistics{}
	}

	kept := stats.FilterOutliersIQR(freqs, stats.DefaultOutlierK)
	if len(kept) == 0 {
		kept = freqs
	}

	lo, hi := floats.Min(kept), floats.Max(kept)
	return PitchStatistics{
		Mean:           common.Mean(kept),
		Std:            common.StandardDeviation(kept),
		Min:            lo,
		Max:            hi,
		Range:          hi - lo,
		VoicedCount:    len(freqs),
		MeanConfidence: common.Mean(confidences),
	}
}

// VoicedFrequencies returns the frequencies of the voiced estimates
func VoicedFrequencies(estimates []PitchEstimate) []float64 {
	var freqs []float64
	for _, e := range estimates {
		if e.Voiced() {
			freqs = append(freqs, e.Frequency)
		}
	}
	return freqs
}
