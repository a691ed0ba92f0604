package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/filters"
	"github.com/RyanBlaney/sonido-voz/algorithms/psychoacoustic"
	"github.com/RyanBlaney/sonido-voz/algorithms/speech"
	"github.com/RyanBlaney/sonido-voz/algorithms/temporal"
	"github.com/RyanBlaney/sonido-voz/algorithms/tonal"
	"gopkg.in/yaml.v3"
)

// AnalysisConfig configures every stage of voice analysis
type AnalysisConfig struct {
	Preprocess     PreprocessConfig     `json:"preprocess" yaml:"preprocess" mapstructure:"preprocess"`
	Resample       ResampleConfig       `json:"resample" yaml:"resample" mapstructure:"resample"`
	VAD            VADConfig            `json:"vad" yaml:"vad" mapstructure:"vad"`
	Pitch          PitchConfig          `json:"pitch" yaml:"pitch" mapstructure:"pitch"`
	Formant        FormantConfig        `json:"formant" yaml:"formant" mapstructure:"formant"`
	Psychoacoustic PsychoacousticConfig `json:"psychoacoustic" yaml:"psychoacoustic" mapstructure:"psychoacoustic"`
	Spectral       SpectralConfig       `json:"spectral" yaml:"spectral" mapstructure:"spectral"`
}

type PreprocessConfig struct {
	// RemoveDC runs a one-pole DC blocker before analysis
	RemoveDC       bool    `json:"remove_dc" yaml:"remove_dc" mapstructure:"remove_dc"`
	DCCutoffHz     float64 `json:"dc_cutoff_hz" yaml:"dc_cutoff_hz" mapstructure:"dc_cutoff_hz"`
	MaxDurationSec float64 `json:"max_duration_sec" yaml:"max_duration_sec" mapstructure:"max_duration_sec"` // 0 = whole clip
}

type ResampleConfig struct {
	TargetSampleRate int `json:"target_sample_rate" yaml:"target_sample_rate" mapstructure:"target_sample_rate"` // 0 keeps the input rate
}

type VADConfig struct {
	FrameSize         int     `json:"frame_size" yaml:"frame_size" mapstructure:"frame_size"`
	HopSize           int     `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`
	EnergyThresholdDB float64 `json:"energy_threshold_db" yaml:"energy_threshold_db" mapstructure:"energy_threshold_db"`
	ZCRThreshold      float64 `json:"zcr_threshold" yaml:"zcr_threshold" mapstructure:"zcr_threshold"`
	HangoverFrames    int     `json:"hangover_frames" yaml:"hangover_frames" mapstructure:"hangover_frames"`
}

type PitchConfig struct {
	Method       string  `json:"method" yaml:"method" mapstructure:"method"` // "yin", "autocorrelation"
	FrameSize    int     `json:"frame_size" yaml:"frame_size" mapstructure:"frame_size"`
	HopSize      int     `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`
	Threshold    float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
	MinFrequency float64 `json:"min_frequency" yaml:"min_frequency" mapstructure:"min_frequency"`
	MaxFrequency float64 `json:"max_frequency" yaml:"max_frequency" mapstructure:"max_frequency"`
	Workers      int     `json:"workers" yaml:"workers" mapstructure:"workers"` // 0 = GOMAXPROCS
}

type FormantConfig struct {
	FrameSize   int     `json:"frame_size" yaml:"frame_size" mapstructure:"frame_size"`
	HopSize     int     `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`
	LPCOrder    int     `json:"lpc_order" yaml:"lpc_order" mapstructure:"lpc_order"`
	PreEmphasis float64 `json:"pre_emphasis" yaml:"pre_emphasis" mapstructure:"pre_emphasis"`
}

type PsychoacousticConfig struct {
	FrameSize int `json:"frame_size" yaml:"frame_size" mapstructure:"frame_size"`
	HopSize   int `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`
}

type SpectralConfig struct {
	FrameSize        int     `json:"frame_size" yaml:"frame_size" mapstructure:"frame_size"`
	HopSize          int     `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`
	RolloffThreshold float64 `json:"rolloff_threshold" yaml:"rolloff_threshold" mapstructure:"rolloff_threshold"`
}

// DefaultAnalysisConfig returns the analysis defaults used for voice mapping
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Preprocess: PreprocessConfig{
			RemoveDC:   false,
			DCCutoffHz: 20.0,
		},
		VAD: VADConfig{
			FrameSize:         temporal.DefaultVADFrameSize,
			HopSize:           temporal.DefaultVADHopSize,
			EnergyThresholdDB: temporal.DefaultEnergyThresholdDB,
			ZCRThreshold:      temporal.DefaultZCRThreshold,
			HangoverFrames:    temporal.DefaultHangoverFrames,
		},
		Pitch: PitchConfig{
			Method:       tonal.MethodYIN.String(),
			FrameSize:    2048,
			HopSize:      tonal.DefaultPitchHop,
			Threshold:    tonal.DefaultYINThreshold,
			MinFrequency: tonal.DefaultMinFrequency,
			MaxFrequency: tonal.DefaultMaxFrequency,
		},
		Formant: FormantConfig{
			FrameSize:   speech.DefaultFormantFrameSize,
			HopSize:     speech.DefaultFormantHopSize,
			LPCOrder:    speech.DefaultLPCOrder,
			PreEmphasis: filters.DefaultPreEmphasis,
		},
		Psychoacoustic: PsychoacousticConfig{
			FrameSize: psychoacoustic.DefaultFrameSize,
			HopSize:   psychoacoustic.DefaultHopSize,
		},
		Spectral: SpectralConfig{
			FrameSize:        2048,
			HopSize:          512,
			RolloffThreshold: 0.85,
		},
	}
}

// Load reads the YAML configuration file at path and returns a validated config.
// Keys missing from the file keep their default values.
func Load(path string) (*AnalysisConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over the defaults and validates it.
// Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*AnalysisConfig, error) {
	cfg := DefaultAnalysisConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting as a joined list of ConfigErrors
func (c *AnalysisConfig) Validate() error {
	var errs []error
	positive := func(param string, value int) {
		if err := common.RequirePositive(param, value); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Preprocess.RemoveDC && c.Preprocess.DCCutoffHz <= 0 {
		errs = append(errs, common.NewConfigError("preprocess.dc_cutoff_hz", c.Preprocess.DCCutoffHz, "must be positive"))
	}
	if c.Preprocess.MaxDurationSec < 0 {
		errs = append(errs, common.NewConfigError("preprocess.max_duration_sec", c.Preprocess.MaxDurationSec, "must not be negative"))
	}
	if c.Resample.TargetSampleRate < 0 {
		errs = append(errs, common.NewConfigError("resample.target_sample_rate", c.Resample.TargetSampleRate, "must not be negative"))
	}

	positive("vad.frame_size", c.VAD.FrameSize)
	positive("vad.hop_size", c.VAD.HopSize)
	if c.VAD.ZCRThreshold < 0 {
		errs = append(errs, common.NewConfigError("vad.zcr_threshold", c.VAD.ZCRThreshold, "must not be negative"))
	}
	if c.VAD.HangoverFrames < 0 {
		errs = append(errs, common.NewConfigError("vad.hangover_frames", c.VAD.HangoverFrames, "must not be negative"))
	}

	if _, err := tonal.ParsePitchMethod(c.Pitch.Method); err != nil {
		errs = append(errs, err)
	}
	positive("pitch.frame_size", c.Pitch.FrameSize)
	positive("pitch.hop_size", c.Pitch.HopSize)
	if c.Pitch.Threshold <= 0 || c.Pitch.Threshold >= 1 {
		errs = append(errs, common.NewConfigError("pitch.threshold", c.Pitch.Threshold, "must be in (0, 1)"))
	}
	if c.Pitch.MinFrequency <= 0 || c.Pitch.MaxFrequency <= c.Pitch.MinFrequency {
		errs = append(errs, common.NewConfigError("pitch.frequency_range",
			fmt.Sprintf("%g-%g", c.Pitch.MinFrequency, c.Pitch.MaxFrequency), "min must be positive and below max"))
	}
	if c.Pitch.Workers < 0 {
		errs = append(errs, common.NewConfigError("pitch.workers", c.Pitch.Workers, "must not be negative"))
	}

	positive("formant.frame_size", c.Formant.FrameSize)
	positive("formant.hop_size", c.Formant.HopSize)
	positive("formant.lpc_order", c.Formant.LPCOrder)
	if c.Formant.PreEmphasis < 0 || c.Formant.PreEmphasis >= 1 {
		errs = append(errs, common.NewConfigError("formant.pre_emphasis", c.Formant.PreEmphasis, "must be in [0, 1)"))
	}

	if !common.IsPowerOfTwo(c.Psychoacoustic.FrameSize) {
		errs = append(errs, common.NewConfigError("psychoacoustic.frame_size", c.Psychoacoustic.FrameSize, "must be a power of two"))
	}
	positive("psychoacoustic.hop_size", c.Psychoacoustic.HopSize)

	if !common.IsPowerOfTwo(c.Spectral.FrameSize) {
		errs = append(errs, common.NewConfigError("spectral.frame_size", c.Spectral.FrameSize, "must be a power of two"))
	}
	positive("spectral.hop_size", c.Spectral.HopSize)
	if c.Spectral.RolloffThreshold <= 0 || c.Spectral.RolloffThreshold > 1 {
		errs = append(errs, common.NewConfigError("spectral.rolloff_threshold", c.Spectral.RolloffThreshold, "must be in (0, 1]"))
	}

	return errors.Join(errs...)
}
