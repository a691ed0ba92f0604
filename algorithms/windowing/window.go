package windowing

import (
	"fmt"
	"math"
)

// Window is a precomputed, read-only taper shared by every frame of an analyzer
type Window interface {
	Apply(signal []float64) []float64
	ApplyInPlace(signal []float64) error
	ApplyTo(dst, src []float64)
	Size() int
	Type() string
}

// cosineWindow holds coefficients of a two-term generalized cosine window:
// w[i] = a0 - (1-a0)*cos(2*pi*i/D), with D = N-1 (symmetric) or N (periodic).
type cosineWindow struct {
	name         string
	coefficients []float64
}

func newCosineWindow(name string, size int, a0 float64, symmetric bool) cosineWindow {
	if size < 0 {
		size = 0
	}
	w := cosineWindow{name: name, coefficients: make([]float64, size)}
	if size == 1 {
		w.coefficients[0] = 1.0
		return w
	}

	denominator := float64(size)
	if symmetric {
		denominator = float64(size - 1)
	}
	for i := range size {
		w.coefficients[i] = a0 - (1-a0)*math.Cos(2*math.Pi*float64(i)/denominator)
	}
	return w
}

// Apply returns a windowed copy, or nil on a length mismatch
func (w cosineWindow) Apply(signal []float64) []float64 {
	if len(signal) != len(w.coefficients) {
		return nil
	}
	windowed := make([]float64, len(signal))
	for i, c := range w.coefficients {
		windowed[i] = signal[i] * c
	}
	return windowed
}

// ApplyInPlace windows signal in place
func (w cosineWindow) ApplyInPlace(signal []float64) error {
	if len(signal) != len(w.coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(w.coefficients))
	}
	for i, c := range w.coefficients {
		signal[i] *= c
	}
	return nil
}

// ApplyTo writes the windowed src into dst. src is truncated or zero
// padded to the window size; dst must hold at least Size() values.
func (w cosineWindow) ApplyTo(dst, src []float64) {
	for i, c := range w.coefficients {
		if i < len(src) {
			dst[i] = src[i] * c
		} else {
			dst[i] = 0
		}
	}
}

// Coefficients returns a copy of the window coefficients
func (w cosineWindow) Coefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// Size returns the window size
func (w cosineWindow) Size() int {
	return len(w.coefficients)
}

// Type returns the window name
func (w cosineWindow) Type() string {
	return w.name
}
