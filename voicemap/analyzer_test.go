package voicemap

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/spectral"
	"github.com/RyanBlaney/sonido-voz/logging"
	"github.com/RyanBlaney/sonido-voz/voicemap/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

const (
	testRate = 16000
	testF0   = 125.0
	testF1   = 750.0
	testF2   = 1500.0
)

// voicedClip synthesizes a vowel-like clip: a strong fundamental plus two
// harmonics sitting on the formant frequencies, over a faint noise floor.
func voicedClip(sampleRate int, seconds float64) AudioClip {
	n := int(seconds * float64(sampleRate))
	rng := rand.New(rand.NewSource(42))
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		v := 1.2*math.Sin(2*math.Pi*testF0*t) +
			math.Sin(2*math.Pi*testF1*t) +
			math.Sin(2*math.Pi*testF2*t)
		samples[i] = float32(0.2*v + 2e-4*(2*rng.Float64()-1))
	}
	return AudioClip{Samples: samples, SampleRate: sampleRate}
}

func hasNear(values []float64, target, tolerance float64) bool {
	for _, v := range values {
		if math.Abs(v-target) <= tolerance*target {
			return true
		}
	}
	return false
}

type AnalyzerSuite struct {
	suite.Suite
	analyzer *Analyzer
}

func (s *AnalyzerSuite) SetupSuite() {
	a, err := NewAnalyzer(nil, &logging.NoOpLogger{})
	s.Require().NoError(err)
	s.analyzer = a
}

func (s *AnalyzerSuite) TestEndToEndVoicedClip() {
	rec, err := s.analyzer.Analyze(context.Background(), voicedClip(testRate, 3))
	s.Require().NoError(err)

	s.False(rec.Silent)
	s.Equal(testRate, rec.SampleRate)
	s.InDelta(3.0, rec.Duration, 1e-9)

	s.InDelta(testF0, rec.Pitch.Mean, 0.05*testF0)
	s.Greater(rec.Pitch.VoicedCount, 50)
	s.Less(math.Abs(rec.PitchTrend.Slope), 1.0, "steady pitch has a flat trend")

	s.True(hasNear(rec.Formants.Best, testF1, 0.10), "F1 in %v", rec.Formants.Best)
	s.True(hasNear(rec.Formants.Best, testF2, 0.10), "F2 in %v", rec.Formants.Best)

	s.Equal(GenderMale, rec.Gender)
	s.False(rec.Psychoacoustic.Degenerate)
	s.Greater(rec.Psychoacoustic.Loudness, 0.0)
	s.Greater(rec.Spectral.ActiveFrames, 0)
	s.InDelta(common.RMS(common.Float32To64(voicedClip(testRate, 3).Samples)), rec.RMSEnergy, 1e-9)

	for _, v := range []float64{rec.Warmth, rec.Breathiness, rec.Clarity} {
		s.GreaterOrEqual(v, 0.0)
		s.LessOrEqual(v, 1.0)
	}
	s.Greater(rec.Warmth, rec.Breathiness)

	mapper, err := NewMapper(DefaultCatalog(), nil)
	s.Require().NoError(err)
	result := mapper.Map(rec)
	voice, ok := DefaultCatalog().Lookup(result.VoiceID)
	s.Require().True(ok)
	s.Equal(GenderMale, voice.Gender)
	s.InDelta(testF0/MaleBaseHz, result.RecommendedPitch, 0.05)
}

func (s *AnalyzerSuite) TestSilentClip() {
	rec, err := s.analyzer.Analyze(context.Background(), AudioClip{Samples: make([]float32, testRate), SampleRate: testRate})
	s.Require().NoError(err)
	s.True(rec.Silent)
	s.True(rec.Psychoacoustic.Degenerate)
	s.Zero(rec.Pitch.Mean)
	s.Equal(GenderNeutral, rec.Gender)
	s.InDelta(1.0, rec.Duration, 1e-9)

	result := Map(rec, DefaultCatalog().Entries())
	s.Equal(1.0, result.RecommendedPitch)
	s.Equal(1.0, result.RecommendedSpeed)
}

func (s *AnalyzerSuite) TestEmptyClip() {
	rec, err := s.analyzer.Analyze(context.Background(), AudioClip{SampleRate: testRate})
	s.Require().NoError(err)
	s.True(rec.Silent)
	s.Zero(rec.Duration)
}

func (s *AnalyzerSuite) TestInvalidSampleRate() {
	_, err := s.analyzer.Analyze(context.Background(), AudioClip{Samples: make([]float32, 100)})
	s.True(common.IsConfigError(err))
}

func (s *AnalyzerSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.analyzer.Analyze(ctx, voicedClip(testRate, 1))
	s.ErrorIs(err, context.Canceled)
}

func (s *AnalyzerSuite) TestConcurrentUse() {
	clip := voicedClip(testRate, 1)
	records := make([]*FeatureRecord, 4)

	g, ctx := errgroup.WithContext(context.Background())
	for i := range records {
		g.Go(func() error {
			rec, err := s.analyzer.Analyze(ctx, clip)
			records[i] = rec
			return err
		})
	}
	s.Require().NoError(g.Wait())

	for _, rec := range records[1:] {
		s.Equal(records[0].Pitch, rec.Pitch)
		s.Equal(records[0].Formants, rec.Formants)
		s.Equal(records[0].Spectral, rec.Spectral)
	}
}

func TestAnalyzerSuite(t *testing.T) {
	suite.Run(t, new(AnalyzerSuite))
}

func TestAnalyzerResamplesToTarget(t *testing.T) {
	cfg := config.DefaultAnalysisConfig()
	cfg.Resample.TargetSampleRate = testRate
	a, err := NewAnalyzer(cfg, nil)
	require.NoError(t, err)

	rec, err := a.Analyze(context.Background(), voicedClip(32000, 2))
	require.NoError(t, err)
	assert.Equal(t, testRate, rec.SampleRate)
	assert.InDelta(t, 2.0, rec.Duration, 1e-3)
	assert.InDelta(t, testF0, rec.Pitch.Mean, 0.05*testF0)
}

func TestAnalyzerPreprocessingLeavesClipUntouched(t *testing.T) {
	cfg := config.DefaultAnalysisConfig()
	cfg.Preprocess.RemoveDC = true
	cfg.Preprocess.MaxDurationSec = 0.5
	a, err := NewAnalyzer(cfg, nil)
	require.NoError(t, err)

	clip := voicedClip(testRate, 1)
	for i := range clip.Samples {
		clip.Samples[i] += 0.3
	}
	original := append([]float32(nil), clip.Samples...)

	rec, err := a.Analyze(context.Background(), clip)
	require.NoError(t, err)
	assert.Equal(t, original, clip.Samples)
	assert.InDelta(t, 0.5, rec.Duration, 1e-9)
	assert.InDelta(t, testF0, rec.Pitch.Mean, 0.05*testF0)
}

func TestNewAnalyzerRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultAnalysisConfig()
	cfg.Pitch.Method = "cepstrum"
	_, err := NewAnalyzer(cfg, nil)
	assert.True(t, common.IsConfigError(err))

	cfg = config.DefaultAnalysisConfig()
	cfg.Resample.TargetSampleRate = 8000
	a, err := NewAnalyzer(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 8000, a.Config().Resample.TargetSampleRate)
}

func TestCharacterBands(t *testing.T) {
	fft, err := spectral.NewFFT(2048, testRate)
	require.NoError(t, err)

	tone := func(freq float64) *spectral.Spectrum {
		frame := make([]float64, 2048)
		for i := range frame {
			frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / testRate)
		}
		return fft.PowerSpectrum(frame)
	}

	low := Character(tone(200))
	assert.Equal(t, 1.0, low.Warmth)
	assert.InDelta(t, 0, low.Breathiness, 1e-3)
	assert.InDelta(t, 0, low.Clarity, 1e-3)

	mid := Character(tone(2000))
	assert.Equal(t, 1.0, mid.Clarity)
	assert.InDelta(t, 0, mid.Warmth, 1e-3)

	high := Character(tone(6000))
	assert.Equal(t, 1.0, high.Breathiness)
	assert.InDelta(t, 0, high.Clarity, 1e-3)

	assert.Equal(t, VoiceCharacter{}, Character(&spectral.Spectrum{Silent: true}))
	assert.Equal(t, VoiceCharacter{}, Character(nil))
}
