package spectral

import (
	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// Summary aggregates per-frame spectral statistics over a clip
type Summary struct {
	Centroid       float64 `json:"centroid_hz" yaml:"centroid_hz"`
	CentroidMedian float64 `json:"centroid_median_hz" yaml:"centroid_median_hz"`
	Bandwidth      float64 `json:"bandwidth_hz" yaml:"bandwidth_hz"` // std of per-frame centroids
	Spread         float64 `json:"spread_hz" yaml:"spread_hz"`
	Skewness       float64 `json:"skewness" yaml:"skewness"`
	Kurtosis       float64 `json:"kurtosis" yaml:"kurtosis"`
	Entropy        float64 `json:"entropy" yaml:"entropy"`
	Flatness       float64 `json:"flatness" yaml:"flatness"`
	Slope          float64 `json:"slope" yaml:"slope"` // log-log tilt
	Crest          float64 `json:"crest" yaml:"crest"`
	Rolloff        float64 `json:"rolloff_hz" yaml:"rolloff_hz"`
	RolloffMedian  float64 `json:"rolloff_median_hz" yaml:"rolloff_median_hz"`
	Flux           float64 `json:"flux" yaml:"flux"`
	ActiveFrames   int     `json:"active_frames" yaml:"active_frames"`
}

// Summarizer accumulates a Summary and a bin-wise average spectrum one
// frame at a time, so a clip's spectra never have to be held together.
// Only the per-frame centroid and rolloff are kept, for the medians.
// It is not safe for concurrent use.
type Summarizer struct {
	rolloffThreshold float64
	flatness         *SpectralFlatness
	flux             *SpectralFlux

	sum       Summary
	frames    int
	fluxTotal float64
	centroids []float64
	rolloffs  []float64

	average  *Spectrum
	averaged int
}

// NewSummarizer creates an empty accumulator
func NewSummarizer(rolloffThreshold float64) *Summarizer {
	return &Summarizer{
		rolloffThreshold: rolloffThreshold,
		flatness:         NewSpectralFlatness(),
		flux:             NewSpectralFlux(),
	}
}

// Add folds one frame into the running statistics. Flux is measured
// between consecutive frames regardless of silence; every other statistic
// skips silent frames.
func (z *Summarizer) Add(s *Spectrum) {
	z.frames++
	z.fluxTotal += z.flux.Next(s)
	if s == nil {
		return
	}

	if z.average == nil {
		z.average = &Spectrum{Bins: make([]float64, len(s.Bins)), BinWidthHz: s.BinWidthHz, FFTSize: s.FFTSize}
	}
	if s.Silent {
		return
	}
	if len(s.Bins) == len(z.average.Bins) {
		floats.Add(z.average.Bins, s.Bins)
		z.averaged++
	}

	m := ComputeMoments(s)
	z.centroids = append(z.centroids, m.Centroid)
	z.rolloffs = append(z.rolloffs, Rolloff(s, z.rolloffThreshold))

	z.sum.Spread += m.Spread
	z.sum.Skewness += m.Skewness
	z.sum.Kurtosis += m.Kurtosis
	z.sum.Entropy += Entropy(s)
	z.sum.Flatness += z.flatness.Compute(s)
	z.sum.Slope += Slope(s)
	z.sum.Crest += Crest(s)
}

// Summary returns the statistics of the frames added so far, averaged
// over the non-silent ones
func (z *Summarizer) Summary() Summary {
	sum := z.sum
	if z.frames > 1 {
		sum.Flux = z.fluxTotal / float64(z.frames-1)
	}

	n := len(z.centroids)
	sum.ActiveFrames = n
	if n == 0 {
		return sum
	}

	scale := 1 / float64(n)
	sum.Centroid = common.Mean(z.centroids)
	sum.CentroidMedian = common.Median(z.centroids)
	sum.Bandwidth = common.StandardDeviation(z.centroids)
	sum.Rolloff = common.Mean(z.rolloffs)
	sum.RolloffMedian = common.Median(z.rolloffs)
	sum.Spread *= scale
	sum.Skewness *= scale
	sum.Kurtosis *= scale
	sum.Entropy *= scale
	sum.Flatness *= scale
	sum.Slope *= scale
	sum.Crest *= scale
	return sum
}

// Average returns the bin-wise mean of the non-silent frames added so far.
// Frames whose size differs from the first frame are skipped. The result
// is Silent when no frame carried signal.
func (z *Summarizer) Average() *Spectrum {
	if z.average == nil {
		return &Spectrum{Silent: true}
	}
	avg := &Spectrum{
		Bins:       make([]float64, len(z.average.Bins)),
		BinWidthHz: z.average.BinWidthHz,
		FFTSize:    z.average.FFTSize,
	}
	if z.averaged == 0 {
		avg.Silent = true
		return avg
	}
	floats.ScaleTo(avg.Bins, 1/float64(z.averaged), z.average.Bins)
	return avg
}

// Summarize is Summarizer over an in-memory slice of spectra
func Summarize(spectra []*Spectrum, rolloffThreshold float64) Summary {
	z := NewSummarizer(rolloffThreshold)
	for _, s := range spectra {
		z.Add(s)
	}
	return z.Summary()
}
