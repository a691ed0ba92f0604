package speech

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// Minimum sequence lengths for each perturbation measure
const (
	MinPeriodsLocal = 3
	MinPeriodsPPQ5  = 5
)

// Jitter is cycle-to-cycle period perturbation, in percent
type Jitter struct {
	Local float64 `json:"local" yaml:"local"`
	RAP   float64 `json:"rap" yaml:"rap"`
	PPQ5  float64 `json:"ppq5" yaml:"ppq5"`
}

// Shimmer is cycle-to-cycle amplitude perturbation. Local is in dB,
// the quotients in percent.
type Shimmer struct {
	LocalDB float64 `json:"local_db" yaml:"local_db"`
	APQ3    float64 `json:"apq3" yaml:"apq3"`
	APQ5    float64 `json:"apq5" yaml:"apq5"`
}

// ComputeJitter measures perturbation of a voiced period sequence (seconds
// or samples, the ratio is unit free). Measures whose minimum length is not
// met report 0.
func ComputeJitter(periods []float64) Jitter {
	return Jitter{
		Local: localPerturbation(periods),
		RAP:   perturbationQuotient(periods, 3),
		PPQ5:  perturbationQuotient(periods, 5),
	}
}

// ComputeShimmer measures perturbation of per-cycle peak amplitudes
func ComputeShimmer(amplitudes []float64) Shimmer {
	return Shimmer{
		LocalDB: localShimmerDB(amplitudes),
		APQ3:    perturbationQuotient(amplitudes, 3),
		APQ5:    perturbationQuotient(amplitudes, 5),
	}
}

// localPerturbation is the mean absolute difference of consecutive values
// relative to the mean value
func localPerturbation(values []float64) float64 {
	if len(values) < MinPeriodsLocal {
		return 0.0
	}
	mean := common.Mean(values)
	if mean < common.Epsilon {
		return 0.0
	}

	sum := 0.0
	for i := 1; i < len(values); i++ {
		sum += math.Abs(values[i] - values[i-1])
	}
	return sum / float64(len(values)-1) / mean * 100
}

// perturbationQuotient is the mean absolute deviation of each value from
// the average of the window of width centred on it, relative to the mean.
// Width 3 gives RAP/APQ3, width 5 gives PPQ5/APQ5.
func perturbationQuotient(values []float64, width int) float64 {
	if len(values) < width {
		return 0.0
	}
	mean := common.Mean(values)
	if mean < common.Epsilon {
		return 0.0
	}

	half := width / 2
	sum := 0.0
	count := 0
	for i := half; i < len(values)-half; i++ {
		local := common.Mean(values[i-half : i+half+1])
		sum += math.Abs(values[i] - local)
		count++
	}
	return sum / float64(count) / mean * 100
}

// localShimmerDB is the mean absolute dB ratio of consecutive amplitudes
func localShimmerDB(amplitudes []float64) float64 {
	if len(amplitudes) < MinPeriodsLocal {
		return 0.0
	}

	sum := 0.0
	for i := 1; i < len(amplitudes); i++ {
		prev := math.Max(amplitudes[i-1], common.Epsilon)
		cur := math.Max(amplitudes[i], common.Epsilon)
		sum += math.Abs(20 * math.Log10(cur/prev))
	}
	return sum / float64(len(amplitudes)-1)
}
