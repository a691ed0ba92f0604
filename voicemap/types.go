package voicemap

import (
	"time"

	"github.com/RyanBlaney/sonido-voz/algorithms/psychoacoustic"
	"github.com/RyanBlaney/sonido-voz/algorithms/spectral"
	"github.com/RyanBlaney/sonido-voz/algorithms/speech"
	"github.com/RyanBlaney/sonido-voz/algorithms/stats"
	"github.com/RyanBlaney/sonido-voz/algorithms/tonal"
)

// AudioClip is a mono PCM recording. Analysis never mutates Samples.
type AudioClip struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the clip length
func (c AudioClip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// Gender is the coarse voice category used for catalog matching
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// PitchBand is a catalog voice's register
type PitchBand string

const (
	PitchLow  PitchBand = "low"
	PitchMid  PitchBand = "mid"
	PitchHigh PitchBand = "high"
)

// FeatureRecord is everything the analyzer measures about one clip
type FeatureRecord struct {
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Duration   float64 `json:"duration_sec" yaml:"duration_sec"`

	// Pitch
	Pitch      tonal.PitchStatistics `json:"pitch" yaml:"pitch"`
	PitchTrend stats.LinearFit       `json:"pitch_trend" yaml:"pitch_trend"` // Hz per second over voiced frames

	// Formants
	Formants speech.FormantStatistics `json:"formants" yaml:"formants"`

	// Perceptual
	Psychoacoustic psychoacoustic.Profile `json:"psychoacoustic" yaml:"psychoacoustic"`
	Spectral       spectral.Summary       `json:"spectral" yaml:"spectral"`

	// Voice character, each in [0, 1]
	Warmth      float64 `json:"warmth" yaml:"warmth"`
	Breathiness float64 `json:"breathiness" yaml:"breathiness"`
	Clarity     float64 `json:"clarity" yaml:"clarity"`

	SpeakingRate float64 `json:"speaking_rate" yaml:"speaking_rate"`
	SpeechRatio  float64 `json:"speech_ratio" yaml:"speech_ratio"`
	RMSEnergy    float64 `json:"rms_energy" yaml:"rms_energy"`
	PeakAmp      float64 `json:"peak_amplitude" yaml:"peak_amplitude"`

	Gender Gender `json:"gender" yaml:"gender"`

	// Silent marks a clip with no measurable signal. All measurements
	// are zero and should not be interpreted.
	Silent bool `json:"silent" yaml:"silent"`
}

// VoiceCatalogEntry describes one synthetic voice identity
type VoiceCatalogEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Gender    Gender    `json:"gender" yaml:"gender"`
	Accent    string    `json:"accent" yaml:"accent"`
	PitchBand PitchBand `json:"pitch_band" yaml:"pitch_band"`
	Style     string    `json:"style,omitempty" yaml:"style,omitempty"`
	Warmth    float64   `json:"warmth" yaml:"warmth"`
	Clarity   float64   `json:"clarity" yaml:"clarity"`
	ASMR      bool      `json:"asmr" yaml:"asmr"`
}

// MappingResult is the chosen voice and how to perform it
type MappingResult struct {
	VoiceID          string  `json:"voice_id" yaml:"voice_id"`
	Confidence       float64 `json:"confidence" yaml:"confidence"`
	RecommendedPitch float64 `json:"recommended_pitch" yaml:"recommended_pitch"`
	RecommendedSpeed float64 `json:"recommended_speed" yaml:"recommended_speed"`
}

// SynthesisParams is what a speech synthesis engine consumes
type SynthesisParams struct {
	VoiceID string  `json:"voice_id" yaml:"voice_id"`
	Pitch   float64 `json:"pitch" yaml:"pitch"`
	Speed   float64 `json:"speed" yaml:"speed"`
}

// SynthesisParams converts a mapping into engine parameters
func (m MappingResult) SynthesisParams() SynthesisParams {
	return SynthesisParams{
		VoiceID: m.VoiceID,
		Pitch:   m.RecommendedPitch,
		Speed:   m.RecommendedSpeed,
	}
}
