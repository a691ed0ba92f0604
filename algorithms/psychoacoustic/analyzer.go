package psychoacoustic

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/spectral"
	"github.com/RyanBlaney/sonido-voz/algorithms/speech"
	"github.com/RyanBlaney/sonido-voz/algorithms/tonal"
	"gonum.org/v1/gonum/floats"
)

// Framing defaults
const (
	DefaultFrameSize = 2048
	DefaultHopSize   = 512

	// frames whose autocorrelation peak is weaker than this are unvoiced
	voicingConfidence = 0.3
)

// Profile is the perceptual summary of a clip
type Profile struct {
	// Loudness is total specific loudness averaged over frames (sone)
	Loudness float64 `json:"loudness" yaml:"loudness"`
	// Sharpness is averaged over audible frames (acum)
	Sharpness float64 `json:"sharpness" yaml:"sharpness"`
	// Roughness is derived from band envelope modulation (asper)
	Roughness float64 `json:"roughness" yaml:"roughness"`

	F0               tonal.PitchStatistics `json:"f0_stats" yaml:"f0_stats"`
	VoicedFrameRatio float64               `json:"voiced_frame_ratio" yaml:"voiced_frame_ratio"`
	Jitter           speech.Jitter         `json:"jitter" yaml:"jitter"`
	Shimmer          speech.Shimmer        `json:"shimmer" yaml:"shimmer"`

	Frames     int  `json:"frames" yaml:"frames"`
	Degenerate bool `json:"degenerate" yaml:"degenerate"`
}

// Analyzer computes loudness, sharpness, roughness and voice perturbation
// on 24 critical bands. Tables are built once; Analyze may be called from
// several goroutines.
type Analyzer struct {
	sampleRate int

	stft        *spectral.STFT
	bands       *spectral.BarkBands
	barkCenters []float64
	thresholds  []float64
	pitch       *tonal.PitchDetector
}

// NewAnalyzer creates an analyzer with 2048-sample frames and a 512 hop
func NewAnalyzer(sampleRate int) (*Analyzer, error) {
	return NewAnalyzerWithParams(sampleRate, DefaultFrameSize, DefaultHopSize)
}

// NewAnalyzerWithParams creates an analyzer with custom framing
func NewAnalyzerWithParams(sampleRate, frameSize, hopSize int) (*Analyzer, error) {
	engine, err := spectral.NewFFT(frameSize, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create psychoacoustic transform: %w", err)
	}
	stft, err := spectral.NewSTFT(engine, hopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create psychoacoustic transform: %w", err)
	}
	pitch, err := tonal.NewPitchDetector(sampleRate, frameSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create psychoacoustic pitch tracker: %w", err)
	}
	pitch.SetMethod(tonal.MethodAutocorrelation)

	centers := spectral.BarkBandCenters()
	a := &Analyzer{
		sampleRate:  sampleRate,
		stft:        stft,
		bands:       spectral.NewBarkBands(engine),
		barkCenters: make([]float64, len(centers)),
		thresholds:  make([]float64, len(centers)),
		pitch:       pitch,
	}
	for b, hz := range centers {
		a.barkCenters[b] = spectral.HzToBark(hz)
		a.thresholds[b] = ThresholdInQuiet(hz)
	}
	return a, nil
}

// Analyze is AnalyzeContext without cancellation
func (a *Analyzer) Analyze(samples []float64) Profile {
	profile, _ := a.AnalyzeContext(context.Background(), samples)
	return profile
}

// AnalyzeContext walks the clip frame by frame, checking ctx between
// frames. An empty or silent clip yields a Degenerate profile.
func (a *Analyzer) AnalyzeContext(ctx context.Context, samples []float64) (Profile, error) {
	numFrames := a.stft.NumFrames(len(samples))
	if numFrames == 0 {
		return Profile{Degenerate: true}, nil
	}

	envelopes := make([][]float64, a.bands.NumBands())
	for b := range envelopes {
		envelopes[b] = make([]float64, 0, numFrames)
	}

	var (
		loudnessSum   float64
		sharpnessSum  float64
		audibleFrames int
		estimates     []tonal.PitchEstimate
		periods       []float64
		amplitudes    []float64
		ctxErr        error
	)

	frameSize := a.stft.FFT().Size()
	hopSize := a.stft.HopSize()

	a.stft.Each(samples, func(i int, s *spectral.Spectrum) bool {
		if ctxErr = ctx.Err(); ctxErr != nil {
			return false
		}

		specific := a.SpecificLoudness(s)
		for b, n := range specific {
			envelopes[b] = append(envelopes[b], n)
		}
		if total := floats.Sum(specific); total > 0 {
			loudnessSum += total
			sharpnessSum += a.Sharpness(specific)
			audibleFrames++
		}

		frame := common.Frame(samples, i, frameSize, hopSize)
		est := a.pitch.DetectAutocorrelation(frame)
		if est.Voiced() && est.Confidence > voicingConfidence {
			estimates = append(estimates, est)
			periods = append(periods, 1.0/est.Frequency)
			amplitudes = append(amplitudes, common.Peak(frame))
		}
		return true
	})
	if ctxErr != nil {
		return Profile{}, fmt.Errorf("psychoacoustic analysis cancelled: %w", ctxErr)
	}

	profile := Profile{
		Loudness:         loudnessSum / float64(numFrames),
		Roughness:        Roughness(envelopes, a.stft.FrameRate()),
		F0:               tonal.Summarize(estimates),
		VoicedFrameRatio: float64(len(estimates)) / float64(numFrames),
		Jitter:           speech.ComputeJitter(periods),
		Shimmer:          speech.ComputeShimmer(amplitudes),
		Frames:           numFrames,
		Degenerate:       audibleFrames == 0 && len(estimates) == 0,
	}
	if audibleFrames > 0 {
		profile.Sharpness = sharpnessSum / float64(audibleFrames)
	}
	return profile, nil
}
