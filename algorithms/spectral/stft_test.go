package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSTFTFramesMatchEach(t *testing.T) {
	engine, err := NewFFT(256, 16000)
	require.NoError(t, err)
	stft, err := NewSTFT(engine, 128)
	require.NoError(t, err)

	signal := sineWave(440, 16000, 4000, 0.8)
	frames := stft.Frames(signal)
	require.Len(t, frames, (4000-256)/128+1)
	assert.Equal(t, len(frames), stft.NumFrames(len(signal)))

	stft.Each(signal, func(i int, s *Spectrum) bool {
		assert.Equal(t, frames[i].Bins, s.Bins, "frame %d", i)
		return true
	})
}

func TestSTFTEachStopsEarly(t *testing.T) {
	engine, err := NewFFT(64, 8000)
	require.NoError(t, err)
	stft, err := NewSTFT(engine, 32)
	require.NoError(t, err)

	visited := 0
	stft.Each(make([]float64, 1000), func(int, *Spectrum) bool {
		visited++
		return visited < 3
	})
	assert.Equal(t, 3, visited)
}

func TestSTFTShortAndEmptySignals(t *testing.T) {
	engine, err := NewFFT(64, 8000)
	require.NoError(t, err)
	stft, err := NewSTFT(engine, 32)
	require.NoError(t, err)

	assert.Empty(t, stft.Frames(nil))
	frames := stft.Frames([]float64{0.1, 0.2})
	require.Len(t, frames, 1)
	assert.False(t, frames[0].Silent)
	assert.InDelta(t, 250.0, stft.FrameRate(), 1e-12)
}

func TestNewSTFTValidation(t *testing.T) {
	_, err := NewSTFT(nil, 10)
	assert.Error(t, err)

	engine, err := NewFFT(64, 8000)
	require.NoError(t, err)
	_, err = NewSTFT(engine, 0)
	assert.ErrorContains(t, err, "hop_size")
}
