package spectral

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFFTRejectsInvalidSizes(t *testing.T) {
	for _, size := range []int{0, 1, 3, 1000, -8} {
		_, err := NewFFT(size, 44100)
		require.Error(t, err, "size %d", size)
		assert.True(t, common.IsConfigError(err))
		assert.Contains(t, err.Error(), "fft_size")
	}

	_, err := NewFFT(1024, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample_rate")
}

func TestTransformMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, size := range []int{2, 8, 256, 2048} {
		engine, err := NewFFT(size, 16000)
		require.NoError(t, err)

		input := make([]complex128, size)
		for i := range input {
			input[i] = complex(rng.NormFloat64(), rng.NormFloat64())
		}
		want := fft.FFT(input)

		got := make([]complex128, size)
		copy(got, input)
		engine.Transform(got)

		for k := range got {
			assert.InDelta(t, 0, cmplx.Abs(got[k]-want[k]), 1e-9, "size %d bin %d", size, k)
		}
	}
}

func TestPowerSpectrumShapeAndNormalization(t *testing.T) {
	engine, err := NewFFT(8, 8000)
	require.NoError(t, err)

	s := engine.PowerSpectrum([]float64{1, 1, 1, 1, 1, 1, 1, 1})
	require.Len(t, s.Bins, 5)
	assert.Equal(t, 8, s.FFTSize)
	assert.InDelta(t, 1000.0, s.BinWidthHz, 1e-12)
	assert.False(t, s.Silent)

	// sum of a symmetric Hann window is (N-1)/2
	assert.InDelta(t, 3.5*3.5/8, s.Bins[0], 1e-12)
}

func TestPowerSpectrumSineLandsInBin(t *testing.T) {
	const sampleRate, size, bin = 44100, 2048, 20
	engine, err := NewFFT(size, sampleRate)
	require.NoError(t, err)

	freq := float64(bin) * float64(sampleRate) / size
	s := engine.PowerSpectrum(sineWave(freq, sampleRate, size, 0.5))

	peak := 0
	for k := range s.Bins {
		if s.Bins[k] > s.Bins[peak] {
			peak = k
		}
	}
	assert.Equal(t, bin, peak)
	assert.InDelta(t, freq, s.Frequency(peak), 1e-9)
}

func TestPowerSpectrumDegenerateInput(t *testing.T) {
	engine, err := NewFFT(16, 8000)
	require.NoError(t, err)

	for _, frame := range [][]float64{nil, {}, make([]float64, 16), make([]float64, 4)} {
		s := engine.PowerSpectrum(frame)
		assert.True(t, s.Silent)
		assert.Len(t, s.Bins, 9)
		for _, p := range s.Bins {
			assert.Zero(t, p)
		}
	}
}

func TestPowerSpectrumPadsShortFrames(t *testing.T) {
	engine, err := NewFFT(16, 8000)
	require.NoError(t, err)

	s := engine.PowerSpectrum([]float64{0, 0.5, 1, 0.5})
	assert.False(t, s.Silent)
	assert.Len(t, s.Bins, 9)
	assert.Greater(t, s.Total(), 0.0)
}

func TestMagnitudeDB(t *testing.T) {
	engine, err := NewFFT(16, 8000)
	require.NoError(t, err)

	db := engine.MagnitudeDB(make([]float64, 16))
	require.Len(t, db, 9)
	for _, v := range db {
		assert.InDelta(t, -100.0, v, 1e-9)
	}
}

func TestAverageSkipsSilentSpectra(t *testing.T) {
	a := &Spectrum{Bins: []float64{2, 4}, BinWidthHz: 10, FFTSize: 2}
	b := &Spectrum{Bins: []float64{4, 0}, BinWidthHz: 10, FFTSize: 2}
	silent := &Spectrum{Bins: []float64{0, 0}, BinWidthHz: 10, FFTSize: 2, Silent: true}

	avg := Average([]*Spectrum{silent, a, b})
	assert.False(t, avg.Silent)
	assert.Equal(t, []float64{3, 2}, avg.Bins)
	assert.True(t, Average([]*Spectrum{silent}).Silent)
	assert.True(t, Average(nil).Silent)
}

func TestBandEnergy(t *testing.T) {
	s := &Spectrum{Bins: []float64{1, 2, 3, 4}, BinWidthHz: 100}
	assert.Equal(t, 3.0, s.BandEnergy(-1, 200))
	assert.Equal(t, 7.0, s.BandEnergy(100, 400))
	assert.InDelta(t, 10.0, s.Total(), 1e-12)
	assert.False(t, math.IsNaN(s.DB()[0]))
}
