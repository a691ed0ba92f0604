package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHannSymmetricEndpoints(t *testing.T) {
	h := NewHann(8, true)
	coeffs := h.Coefficients()

	require.Len(t, coeffs, 8)
	assert.InDelta(t, 0.0, coeffs[0], 1e-12)
	assert.InDelta(t, 0.0, coeffs[7], 1e-12)
	for i := range 4 {
		assert.InDelta(t, coeffs[i], coeffs[7-i], 1e-12, "index %d", i)
	}
}

func TestHammingPeriodic(t *testing.T) {
	h := NewHamming(4, false)
	assert.Equal(t, []float64{0.08, 0.54, 1.0, 0.54}, roundAll(h.Coefficients()))
	assert.Equal(t, "hamming", h.Type())
}

func TestApplyToPadsAndTruncates(t *testing.T) {
	h := NewHann(4, false)
	dst := make([]float64, 4)

	h.ApplyTo(dst, []float64{1, 1})
	assert.Equal(t, []float64{0, 0.5}, roundAll(dst[:2]))
	assert.Equal(t, []float64{0, 0}, dst[2:])

	h.ApplyTo(dst, []float64{1, 1, 1, 1, 1, 1})
	assert.Equal(t, []float64{0, 0.5, 1, 0.5}, roundAll(dst))
}

func TestApplyInPlaceSizeMismatch(t *testing.T) {
	h := NewHann(4, true)
	assert.Error(t, h.ApplyInPlace(make([]float64, 3)))
	assert.Nil(t, h.Apply(make([]float64, 5)))
}

func TestSingleSampleWindow(t *testing.T) {
	assert.Equal(t, []float64{1}, NewHann(1, true).Coefficients())
}

func roundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(int64(v*1e6+0.5*sign(v))) / 1e6
	}
	return out
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
