package voicemap

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/spectral"
)

// Band-energy calibration. Each ratio is scaled then clamped to [0, 1].
const (
	warmthCutoffHz     = 500.0
	warmthScale        = 2.0
	breathinessFloorHz = 4000.0
	breathinessScale   = 5.0
	clarityLowHz       = 1000.0
	clarityHighHz      = 4000.0
	clarityScale       = 1.5
)

// VoiceCharacter holds the band-energy voice descriptors
type VoiceCharacter struct {
	Warmth      float64 `json:"warmth" yaml:"warmth"`
	Breathiness float64 `json:"breathiness" yaml:"breathiness"`
	Clarity     float64 `json:"clarity" yaml:"clarity"`
}

// Character derives warmth, breathiness and clarity from a spectrum.
// Warmth is the share of energy below 500 Hz, breathiness the share above
// 4 kHz and clarity the share between 1 and 4 kHz. A Silent spectrum
// yields all zeros.
func Character(s *spectral.Spectrum) VoiceCharacter {
	if s == nil || s.Silent {
		return VoiceCharacter{}
	}
	total := s.Total() + common.Epsilon
	return VoiceCharacter{
		Warmth:      bandRatio(s.BandEnergy(-1, warmthCutoffHz), total, warmthScale),
		Breathiness: bandRatio(s.BandEnergy(breathinessFloorHz, math.Inf(1)), total, breathinessScale),
		Clarity:     bandRatio(s.BandEnergy(clarityLowHz, clarityHighHz), total, clarityScale),
	}
}

func bandRatio(energy, total, scale float64) float64 {
	return common.Clamp(energy/total*scale, 0, 1)
}
