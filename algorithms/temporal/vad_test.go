package temporal

import (
	"testing"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVADSilenceIsSilence(t *testing.T) {
	vad, err := NewVoiceActivityDetector(DefaultVADFrameSize, DefaultVADHopSize)
	require.NoError(t, err)

	track := vad.Detect(make([]float64, 16000))
	require.NotEmpty(t, track.Decisions)
	for i, d := range track.Decisions {
		assert.Equal(t, Silence, d, "frame %d", i)
	}
	assert.Zero(t, track.SpeechRatio())
	assert.Empty(t, vad.Segments(make([]float64, 16000)))
}

func TestVADVoicedToneIsSpeech(t *testing.T) {
	vad, err := NewVoiceActivityDetector(DefaultVADFrameSize, DefaultVADHopSize)
	require.NoError(t, err)

	signal := tone(200, 16000, 16000, 0.5)
	track := vad.Detect(signal)
	assert.Equal(t, 1.0, track.SpeechRatio())

	segments := vad.Segments(signal)
	require.Len(t, segments, 1)
	assert.Equal(t, Segment{Start: 0, End: len(signal)}, segments[0])
}

func TestVADRejectsNoise(t *testing.T) {
	vad, err := NewVoiceActivityDetector(DefaultVADFrameSize, DefaultVADHopSize)
	require.NoError(t, err)

	// loud but with a zero-crossing rate near 0.5
	track := vad.Detect(noise(3, 16000, 0.5))
	assert.Zero(t, track.SpeechRatio())
}

func TestVADHangover(t *testing.T) {
	vad, err := NewVoiceActivityDetector(100, 100)
	require.NoError(t, err)

	signal := append(tone(200, 16000, 1000, 0.5), make([]float64, 2000)...)
	track := vad.Detect(signal)
	require.Len(t, track.Decisions, 30)

	// ten candidate frames, the last of which starts a five-frame hangover
	for i := range 14 {
		assert.Equal(t, Speech, track.Decisions[i], "frame %d", i)
	}
	for i := 14; i < 30; i++ {
		assert.Equal(t, Silence, track.Decisions[i], "frame %d", i)
	}
	assert.InDelta(t, 14.0/30.0, track.SpeechRatio(), 1e-12)
	assert.Equal(t, []Segment{{Start: 0, End: 1400}}, track.Segments(len(signal)))

	require.NoError(t, vad.SetHangover(1))
	assert.Equal(t, []Segment{{Start: 0, End: 1000}}, vad.Segments(signal))

	require.NoError(t, vad.SetHangover(0))
	assert.Nil(t, vad.Segments(signal))
}

func TestVADHangoverAfterShortBurst(t *testing.T) {
	vad, err := NewVoiceActivityDetector(100, 100)
	require.NoError(t, err)

	signal := append(tone(200, 16000, 200, 0.5), make([]float64, 1000)...)
	track := vad.Detect(signal)
	require.Len(t, track.Decisions, 12)

	speech := 0
	for _, d := range track.Decisions {
		if d == Speech {
			speech++
		}
	}
	assert.Equal(t, 6, speech)
	assert.Equal(t, Silence, track.Decisions[6])
}

func TestVADSegmentsSplitOnSilence(t *testing.T) {
	vad, err := NewVoiceActivityDetector(100, 100)
	require.NoError(t, err)
	require.NoError(t, vad.SetHangover(1))

	var signal []float64
	signal = append(signal, make([]float64, 500)...)
	signal = append(signal, tone(200, 16000, 500, 0.5)...)
	signal = append(signal, make([]float64, 500)...)
	signal = append(signal, tone(200, 16000, 550, 0.5)...)

	segments := vad.Segments(signal)
	assert.Equal(t, []Segment{{Start: 500, End: 1000}, {Start: 1500, End: len(signal)}}, segments)
}

func TestVADShortAndEmptyClips(t *testing.T) {
	vad, err := NewVoiceActivityDetector(DefaultVADFrameSize, DefaultVADHopSize)
	require.NoError(t, err)

	assert.Empty(t, vad.Detect(nil).Decisions)
	assert.Nil(t, vad.Segments(nil))

	short := vad.Detect(tone(200, 16000, 100, 0.5))
	assert.Equal(t, []VADState{Speech}, short.Decisions)
}

func TestVADThresholds(t *testing.T) {
	vad, err := NewVoiceActivityDetector(DefaultVADFrameSize, DefaultVADHopSize)
	require.NoError(t, err)

	quiet := tone(200, 16000, 8000, 0.001) // about -63 dB
	assert.Zero(t, vad.Detect(quiet).SpeechRatio())

	require.NoError(t, vad.SetThresholds(-80, 0.1))
	assert.Equal(t, 1.0, vad.Detect(quiet).SpeechRatio())
}

func TestVADConfigErrors(t *testing.T) {
	_, err := NewVoiceActivityDetector(0, 256)
	assert.True(t, common.IsConfigError(err))
	_, err = NewVoiceActivityDetector(512, -1)
	assert.True(t, common.IsConfigError(err))

	vad, err := NewVoiceActivityDetector(512, 256)
	require.NoError(t, err)
	assert.True(t, common.IsConfigError(vad.SetThresholds(-40, -0.1)))
	assert.True(t, common.IsConfigError(vad.SetHangover(-1)))
}

func TestFrameFeatures(t *testing.T) {
	assert.InDelta(t, -100.0, FrameEnergyDB(make([]float64, 64)), 1e-9)
	assert.InDelta(t, 0.0, FrameEnergyDB([]float64{1, -1, 1, -1}), 1e-6)

	assert.Equal(t, 0.75, ZeroCrossingRate([]float64{1, -1, 1, -1}))
	assert.Zero(t, ZeroCrossingRate([]float64{0, 1, 2, 3}))
	assert.Zero(t, ZeroCrossingRate(nil))
}

func TestSpeakingRate(t *testing.T) {
	const sr = 16000
	// 4 bursts per second: roughly 4 syllables per second
	burst := sr / 8
	signal := make([]float64, 2*sr)
	carrier := tone(200, sr, len(signal), 0.5)
	for i := range signal {
		if (i/burst)%2 == 0 {
			signal[i] = carrier[i]
		}
	}
	assert.InDelta(t, 1.0, SpeakingRate(signal, sr), 0.1)

	assert.Equal(t, 0.5, SpeakingRate(make([]float64, sr), sr))
	assert.Equal(t, 1.0, SpeakingRate(make([]float64, 100), sr))
	assert.Equal(t, 1.0, SpeakingRate(signal, 0))
}

func TestEnvelope(t *testing.T) {
	env := NewEnvelope()
	signal := []float64{1, -1, 1, -1, 2, -2, 2, -2, 0}

	rms := env.ComputeRMS(signal, 4, 4)
	assert.Equal(t, []float64{1, 2}, rms)

	peaks := env.ComputePeak(signal, 4, 4)
	assert.Equal(t, []float64{1, 2}, peaks)

	assert.Empty(t, env.ComputeRMS(signal[:3], 4, 4))
}
