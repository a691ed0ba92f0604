package temporal

import (
	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

const (
	speakingRateFrameSec   = 0.02
	speakingRateHopSec     = 0.01
	nominalSyllablesPerSec = 4.0
	minSpeakingRate        = 0.5
	maxSpeakingRate        = 1.5
)

// SpeakingRate estimates tempo from a 20 ms / 10 ms RMS envelope. Each
// crossing of the envelope mean counts half a syllable; the rate is scaled
// so 4 syllables/sec reads 1.0 and clamped to [0.5, 1.5]. Clips too short
// for two envelope frames return 1.0.
func SpeakingRate(signal []float64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 1.0
	}

	frameSize := int(speakingRateFrameSec * float64(sampleRate))
	hopSize := int(speakingRateHopSec * float64(sampleRate))
	envelope := NewEnvelope().ComputeRMS(signal, frameSize, hopSize)
	if len(envelope) < 2 {
		return 1.0
	}

	mean := common.Mean(envelope)
	crossings := 0
	for i := 1; i < len(envelope); i++ {
		if (envelope[i-1] > mean) != (envelope[i] > mean) {
			crossings++
		}
	}

	duration := float64(len(signal)) / float64(sampleRate)
	syllablesPerSec := float64(crossings) / (2 * duration)
	return common.Clamp(syllablesPerSec/nominalSyllablesPerSec, minSpeakingRate, maxSpeakingRate)
}
