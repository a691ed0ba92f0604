package tonal

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// PitchMethod selects the fundamental frequency estimator
type PitchMethod int

const (
	// MethodYIN is the cumulative mean normalized difference estimator
	MethodYIN PitchMethod = iota
	// MethodAutocorrelation picks the normalized autocorrelation peak
	MethodAutocorrelation
)

func (m PitchMethod) String() string {
	switch m {
	case MethodYIN:
		return "yin"
	case MethodAutocorrelation:
		return "autocorrelation"
	default:
		return "unknown"
	}
}

// ParsePitchMethod maps a config name to a PitchMethod
func ParsePitchMethod(name string) (PitchMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yin", "":
		return MethodYIN, nil
	case "autocorrelation", "acf":
		return MethodAutocorrelation, nil
	default:
		return MethodYIN, common.NewConfigError("pitch_method", name, "expected yin or autocorrelation")
	}
}

// Pitch detector defaults
const (
	DefaultMinFrequency = 50.0
	DefaultMaxFrequency = 500.0
	DefaultYINThreshold = 0.1
	DefaultPitchHop     = 512

	// an autocorrelation peak within this fraction of the global maximum
	// wins if it comes earlier, which suppresses sub-harmonic picks
	subharmonicTolerance = 0.9
)

// PitchEstimate is a single-frame F0 estimate. Frequency 0 means unvoiced.
type PitchEstimate struct {
	Frequency  float64 `json:"frequency"`
	Confidence float64 `json:"confidence"`
}

// Voiced reports whether a fundamental was found
func (p PitchEstimate) Voiced() bool {
	return p.Frequency > 0
}

// PitchDetector estimates the fundamental frequency of speech frames.
//
// References:
// - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental frequency estimator for speech and music"
// - Rabiner, L.R. (1977). "On the use of autocorrelation analysis for pitch detection"
//
// A detector holds only its configuration and is safe for concurrent use.
type PitchDetector struct {
	sampleRate int
	frameSize  int
	minFreq    float64
	maxFreq    float64
	threshold  float64
	method     PitchMethod
}

// NewPitchDetector creates a YIN detector searching 50-500 Hz
func NewPitchDetector(sampleRate, frameSize int) (*PitchDetector, error) {
	if err := common.RequirePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.RequirePositive("pitch_frame_size", frameSize); err != nil {
		return nil, err
	}

	return &PitchDetector{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		minFreq:    DefaultMinFrequency,
		maxFreq:    DefaultMaxFrequency,
		threshold:  DefaultYINThreshold,
		method:     MethodYIN,
	}, nil
}

// SetThreshold sets the YIN acceptance threshold, which must lie in (0, 1)
func (pd *PitchDetector) SetThreshold(threshold float64) error {
	if threshold <= 0 || threshold >= 1 {
		return common.NewConfigError("yin_threshold", threshold, "must be in (0, 1)")
	}
	pd.threshold = threshold
	return nil
}

// SetFrequencyRange narrows or widens the search band
func (pd *PitchDetector) SetFrequencyRange(minFreq, maxFreq float64) error {
	if minFreq <= 0 {
		return common.NewConfigError("min_frequency", minFreq, "must be positive")
	}
	if maxFreq <= minFreq {
		return common.NewConfigError("max_frequency", maxFreq, fmt.Sprintf("must exceed min_frequency %g", minFreq))
	}
	pd.minFreq = minFreq
	pd.maxFreq = maxFreq
	return nil
}

// SetMethod selects the estimator used by Detect
func (pd *PitchDetector) SetMethod(method PitchMethod) {
	pd.method = method
}

// Method returns the estimator used by Detect
func (pd *PitchDetector) Method() PitchMethod {
	return pd.method
}

// SampleRate returns the configured sample rate
func (pd *PitchDetector) SampleRate() int {
	return pd.sampleRate
}

// FrameSize returns the analysis frame length used by the batch methods
func (pd *PitchDetector) FrameSize() int {
	return pd.frameSize
}

// lagRange returns the period search range in samples for a frame of n
func (pd *PitchDetector) lagRange(n int) (int, int) {
	minLag := max(int(float64(pd.sampleRate)/pd.maxFreq), 1)
	maxLag := min(int(float64(pd.sampleRate)/pd.minFreq), n/2)
	return minLag, maxLag
}

func isQuiet(frame []float64) bool {
	return floats.Dot(frame, frame) < common.Epsilon
}

// Detect estimates pitch with the configured method
func (pd *PitchDetector) Detect(frame []float64) PitchEstimate {
	if pd.method == MethodAutocorrelation {
		return pd.DetectAutocorrelation(frame)
	}
	return pd.DetectYIN(frame)
}

// DetectYIN runs YIN: the first lag whose cumulative mean normalized
// difference drops below the threshold, advanced to its local minimum and
// refined by parabolic interpolation.
func (pd *PitchDetector) DetectYIN(frame []float64) PitchEstimate {
	n := len(frame)
	minLag, maxLag := pd.lagRange(n)
	if maxLag <= minLag || isQuiet(frame) {
		return PitchEstimate{}
	}

	// one extra lag so the refinement always has a right neighbour
	limit := maxLag + 1
	diff := make([]float64, limit+1)
	for tau := 1; tau <= limit; tau++ {
		sum := 0.0
		for j := 0; j < n-tau; j++ {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	cmnd := make([]float64, limit+1)
	cmnd[0] = 1.0
	runningSum := 0.0
	for tau := 1; tau <= limit; tau++ {
		runningSum += diff[tau]
		cmnd[tau] = diff[tau] * float64(tau) / math.Max(runningSum, common.Epsilon)
	}

	for tau := minLag; tau <= maxLag; tau++ {
		if cmnd[tau] >= pd.threshold {
			continue
		}
		for tau+1 <= maxLag && cmnd[tau+1] < cmnd[tau] {
			tau++
		}

		delta := common.ParabolicInterpolation(cmnd[tau-1], cmnd[tau], cmnd[tau+1])
		period := float64(tau) + delta
		return PitchEstimate{
			Frequency:  float64(pd.sampleRate) / period,
			Confidence: common.Clamp(1.0-cmnd[tau], 0, 1),
		}
	}

	return PitchEstimate{}
}

// DetectAutocorrelation picks the strongest normalized autocorrelation peak,
// preferring the earliest peak that reaches 90% of the maximum.
func (pd *PitchDetector) DetectAutocorrelation(frame []float64) PitchEstimate {
	n := len(frame)
	minLag, maxLag := pd.lagRange(n)
	if maxLag <= minLag || isQuiet(frame) {
		return PitchEstimate{}
	}

	// neighbours on both sides of the search band for peak tests
	lo := max(minLag-1, 1)
	hi := min(maxLag+1, n-1)
	corr := make([]float64, hi+1)
	for lag := lo; lag <= hi; lag++ {
		corr[lag] = stats.NormalizedCrossCorrelation(frame, lag)
	}

	isPeak := func(lag int) bool {
		return lag > lo && lag < hi && corr[lag] >= corr[lag-1] && corr[lag] >= corr[lag+1]
	}

	best := -1
	for lag := minLag; lag <= maxLag; lag++ {
		if isPeak(lag) && (best < 0 || corr[lag] > corr[best]) {
			best = lag
		}
	}
	if best < 0 || corr[best] <= 0 {
		return PitchEstimate{}
	}

	for lag := minLag; lag < best; lag++ {
		if isPeak(lag) && corr[lag] >= subharmonicTolerance*corr[best] {
			best = lag
			break
		}
	}

	delta := common.ParabolicInterpolation(corr[best-1], corr[best], corr[best+1])
	return PitchEstimate{
		Frequency:  float64(pd.sampleRate) / (float64(best) + delta),
		Confidence: common.Clamp(corr[best], 0, 1),
	}
}

// DetectBatch runs Detect on every hop-spaced frame of samples
func (pd *PitchDetector) DetectBatch(samples []float64, hopSize int) []PitchEstimate {
	if hopSize <= 0 {
		hopSize = DefaultPitchHop
	}

	numFrames := common.NumFrames(len(samples), pd.frameSize, hopSize)
	estimates := make([]PitchEstimate, numFrames)
	for i := range numFrames {
		estimates[i] = pd.Detect(common.Frame(samples, i, pd.frameSize, hopSize))
	}
	return estimates
}

// DetectBatchParallel is DetectBatch spread over at most workers
// goroutines. The result is ordered by frame index.
func (pd *PitchDetector) DetectBatchParallel(ctx context.Context, samples []float64, hopSize, workers int) ([]PitchEstimate, error) {
	if hopSize <= 0 {
		hopSize = DefaultPitchHop
	}
	if workers <= 0 {
		workers = 1
	}

	numFrames := common.NumFrames(len(samples), pd.frameSize, hopSize)
	estimates := make([]PitchEstimate, numFrames)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range numFrames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			estimates[i] = pd.Detect(common.Frame(samples, i, pd.frameSize, hopSize))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pitch batch cancelled: %w", err)
	}
	return estimates, nil
}
