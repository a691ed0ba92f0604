package voicemap

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/filters"
	"github.com/RyanBlaney/sonido-voz/algorithms/psychoacoustic"
	"github.com/RyanBlaney/sonido-voz/algorithms/resample"
	"github.com/RyanBlaney/sonido-voz/algorithms/spectral"
	"github.com/RyanBlaney/sonido-voz/algorithms/speech"
	"github.com/RyanBlaney/sonido-voz/algorithms/stats"
	"github.com/RyanBlaney/sonido-voz/algorithms/temporal"
	"github.com/RyanBlaney/sonido-voz/algorithms/tonal"
	"github.com/RyanBlaney/sonido-voz/logging"
	"github.com/RyanBlaney/sonido-voz/voicemap/config"
	"golang.org/x/sync/errgroup"
)

// Analyzer turns audio clips into feature records. It is safe for
// concurrent use; kernels are built once per sample rate and never mutated.
type Analyzer struct {
	config *config.AnalysisConfig
	vad    *temporal.VoiceActivityDetector
	logger logging.Logger

	mu      sync.Mutex
	kernels map[int]*kernels
}

// kernels are the rate-dependent analyzers
type kernels struct {
	sampleRate int
	pitch      *tonal.PitchDetector
	formant    *speech.FormantAnalyzer
	psycho     *psychoacoustic.Analyzer
	stft       *spectral.STFT
}

// NewAnalyzer validates cfg and builds the analysis kernels. A nil cfg
// uses DefaultAnalysisConfig.
func NewAnalyzer(cfg *config.AnalysisConfig, logger logging.Logger) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	vad, err := temporal.NewVoiceActivityDetector(cfg.VAD.FrameSize, cfg.VAD.HopSize)
	if err != nil {
		return nil, err
	}
	if err := vad.SetThresholds(cfg.VAD.EnergyThresholdDB, cfg.VAD.ZCRThreshold); err != nil {
		return nil, err
	}
	if err := vad.SetHangover(cfg.VAD.HangoverFrames); err != nil {
		return nil, err
	}

	a := &Analyzer{
		config:  cfg,
		vad:     vad,
		kernels: make(map[int]*kernels),
		logger: logging.OrGlobal(logger).WithFields(logging.Fields{
			"component": "voice_analyzer",
		}),
	}

	if rate := cfg.Resample.TargetSampleRate; rate > 0 {
		if _, err := a.kernelsFor(rate); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// SpeechSegments runs the configured voice activity detector over samples
func (a *Analyzer) SpeechSegments(samples []float64) []temporal.Segment {
	return a.vad.Segments(samples)
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() *config.AnalysisConfig {
	return a.config
}

func (a *Analyzer) kernelsFor(sampleRate int) (*kernels, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if k, ok := a.kernels[sampleRate]; ok {
		return k, nil
	}
	k, err := newKernels(a.config, sampleRate)
	if err != nil {
		return nil, err
	}
	a.kernels[sampleRate] = k
	return k, nil
}

func newKernels(cfg *config.AnalysisConfig, sampleRate int) (*kernels, error) {
	method, err := tonal.ParsePitchMethod(cfg.Pitch.Method)
	if err != nil {
		return nil, err
	}
	pitch, err := tonal.NewPitchDetector(sampleRate, cfg.Pitch.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pitch detector: %w", err)
	}
	if err := pitch.SetThreshold(cfg.Pitch.Threshold); err != nil {
		return nil, err
	}
	if err := pitch.SetFrequencyRange(cfg.Pitch.MinFrequency, cfg.Pitch.MaxFrequency); err != nil {
		return nil, err
	}
	pitch.SetMethod(method)

	formant, err := speech.NewFormantAnalyzerWithParams(sampleRate, cfg.Formant.FrameSize, cfg.Formant.HopSize, cfg.Formant.LPCOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to create formant analyzer: %w", err)
	}
	if err := formant.SetPreEmphasis(cfg.Formant.PreEmphasis); err != nil {
		return nil, err
	}

	psycho, err := psychoacoustic.NewAnalyzerWithParams(sampleRate, cfg.Psychoacoustic.FrameSize, cfg.Psychoacoustic.HopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create psychoacoustic analyzer: %w", err)
	}

	fft, err := spectral.NewFFT(cfg.Spectral.FrameSize, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create spectral transform: %w", err)
	}
	stft, err := spectral.NewSTFT(fft, cfg.Spectral.HopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create spectral transform: %w", err)
	}

	return &kernels{
		sampleRate: sampleRate,
		pitch:      pitch,
		formant:    formant,
		psycho:     psycho,
		stft:       stft,
	}, nil
}

// Analyze measures clip and returns its feature record. Silent and empty
// clips produce a record with Silent set rather than an error; errors
// come only from invalid input parameters or ctx.
func (a *Analyzer) Analyze(ctx context.Context, clip AudioClip) (*FeatureRecord, error) {
	logger := a.logger.WithContext(ctx).WithFields(logging.Fields{
		"function":    "Analyze",
		"sample_rate": clip.SampleRate,
		"samples":     len(clip.Samples),
	})

	if err := common.RequirePositive("sample_rate", clip.SampleRate); err != nil {
		logger.Error(err, "Invalid audio clip")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	samples, sampleRate, err := a.prepare(clip)
	if err != nil {
		logger.Error(err, "Failed to prepare samples")
		return nil, err
	}

	record := &FeatureRecord{
		SampleRate: sampleRate,
		Duration:   float64(len(samples)) / float64(sampleRate),
		Gender:     GenderNeutral,
	}
	if common.IsSilent(samples) {
		record.Silent = true
		record.SpeakingRate = 1.0
		record.Psychoacoustic.Degenerate = true
		logger.Debug("Clip is silent", logging.Fields{"duration_sec": record.Duration})
		return record, nil
	}

	k, err := a.kernelsFor(sampleRate)
	if err != nil {
		logger.Error(err, "Failed to build analysis kernels")
		return nil, err
	}

	track := a.vad.Detect(samples)
	record.SpeechRatio = track.SpeechRatio()

	var (
		estimates []tonal.PitchEstimate
		formants  speech.FormantStatistics
		profile   psychoacoustic.Profile
		summary   = spectral.NewSummarizer(a.config.Spectral.RolloffThreshold)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		workers := a.config.Pitch.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		var err error
		estimates, err = k.pitch.DetectBatchParallel(gctx, samples, a.config.Pitch.HopSize, workers)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		formants = k.formant.Statistics(samples)
		return nil
	})
	g.Go(func() error {
		var err error
		profile, err = k.psycho.AnalyzeContext(gctx, samples)
		return err
	})
	g.Go(func() error {
		k.stft.Each(samples, func(_ int, s *spectral.Spectrum) bool {
			if gctx.Err() != nil {
				return false
			}
			summary.Add(s)
			return true
		})
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		logger.Error(err, "Analysis interrupted")
		return nil, fmt.Errorf("failed to analyze clip: %w", err)
	}

	record.Pitch = tonal.Summarize(estimates)
	record.PitchTrend = pitchTrend(estimates, a.config.Pitch.HopSize, a.config.Pitch.FrameSize, sampleRate)
	record.Formants = formants
	record.Psychoacoustic = profile
	record.Spectral = summary.Summary()

	character := Character(summary.Average())
	record.Warmth = character.Warmth
	record.Breathiness = character.Breathiness
	record.Clarity = character.Clarity

	record.SpeakingRate = temporal.SpeakingRate(samples, sampleRate)
	record.RMSEnergy = common.RMS(samples)
	record.PeakAmp = common.Peak(samples)
	record.Gender = Classify(record.Pitch.Mean)

	logger.Debug("Clip analyzed", logging.Fields{
		"duration_sec":  record.Duration,
		"mean_f0":       record.Pitch.Mean,
		"voiced_frames": record.Pitch.VoicedCount,
		"formants":      len(record.Formants.Best),
		"speech_ratio":  record.SpeechRatio,
		"gender":        record.Gender,
		"elapsed":       time.Since(start),
	})
	return record, nil
}

// prepare converts the clip to float64 and applies truncation, DC removal
// and resampling. The clip's own buffer is never written.
func (a *Analyzer) prepare(clip AudioClip) ([]float64, int, error) {
	samples := common.Float32To64(clip.Samples)
	sampleRate := clip.SampleRate

	if maxDuration := a.config.Preprocess.MaxDurationSec; maxDuration > 0 {
		if limit := int(maxDuration * float64(sampleRate)); len(samples) > limit {
			samples = samples[:limit]
		}
	}

	if a.config.Preprocess.RemoveDC && len(samples) > 0 {
		dc, err := filters.NewDCRemoval(sampleRate, a.config.Preprocess.DCCutoffHz)
		if err != nil {
			return nil, 0, err
		}
		samples = dc.ProcessBuffer(samples)
	}

	if target := a.config.Resample.TargetSampleRate; target > 0 && target != sampleRate {
		resampled, err := resample.Lanczos(samples, sampleRate, target)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resample to %d Hz: %w", target, err)
		}
		samples, sampleRate = resampled, target
	}

	return samples, sampleRate, nil
}

// pitchTrend fits F0 against frame-centre time over voiced frames
func pitchTrend(estimates []tonal.PitchEstimate, hopSize, frameSize, sampleRate int) stats.LinearFit {
	var times, freqs []float64
	for i, e := range estimates {
		if !e.Voiced() {
			continue
		}
		centre := float64(i*hopSize) + float64(frameSize)/2
		times = append(times, centre/float64(sampleRate))
		freqs = append(freqs, e.Frequency)
	}
	return stats.LinearRegression(times, freqs)
}
