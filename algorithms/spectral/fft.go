package spectral

import (
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/windowing"
)

// FFT is a radix-2 transform engine. The bit-reversal permutation, twiddle
// factors and Hann window are computed once at construction and only read
// afterwards, so one instance may serve concurrent callers.
type FFT struct {
	size       int
	sampleRate int
	bitReverse []int
	twiddles   []complex128
	window     *windowing.Hann
}

// NewFFT creates a transform engine for power-of-two frames of size samples
func NewFFT(size, sampleRate int) (*FFT, error) {
	if size < 2 || !common.IsPowerOfTwo(size) {
		return nil, common.NewConfigError("fft_size", size, "must be a power of two >= 2")
	}
	if err := common.RequirePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}

	logSize := bits.TrailingZeros(uint(size))
	f := &FFT{
		size:       size,
		sampleRate: sampleRate,
		bitReverse: make([]int, size),
		twiddles:   make([]complex128, size/2),
		window:     windowing.NewHann(size, true),
	}

	for i := range size {
		f.bitReverse[i] = int(bits.Reverse(uint(i)) >> (bits.UintSize - logSize))
	}
	for k := range size / 2 {
		angle := -2 * math.Pi * float64(k) / float64(size)
		f.twiddles[k] = complex(math.Cos(angle), math.Sin(angle))
	}

	return f, nil
}

// Size returns the transform length N
func (f *FFT) Size() int {
	return f.size
}

// SampleRate returns the sample rate used to label bins
func (f *FFT) SampleRate() int {
	return f.sampleRate
}

// BinWidth returns the spacing between bins in Hz
func (f *FFT) BinWidth() float64 {
	return float64(f.sampleRate) / float64(f.size)
}

// NumBins returns the one-sided bin count N/2+1
func (f *FFT) NumBins() int {
	return f.size/2 + 1
}

// Transform computes the forward DFT of buf in place. len(buf) must equal Size().
func (f *FFT) Transform(buf []complex128) {
	n := f.size
	for i := range n {
		if j := f.bitReverse[i]; i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for span := 2; span <= n; span <<= 1 {
		half := span / 2
		stride := n / span
		for start := 0; start < n; start += span {
			for k := range half {
				t := f.twiddles[k*stride] * buf[start+k+half]
				u := buf[start+k]
				buf[start+k] = u + t
				buf[start+k+half] = u - t
			}
		}
	}
}

// PowerSpectrum windows frame with Hann, transforms it and returns the
// one-sided power |X_k|^2/N. Frames are zero padded or truncated to N.
// Empty and all-zero frames yield an all-zero spectrum marked Silent.
func (f *FFT) PowerSpectrum(frame []float64) *Spectrum {
	spectrum := &Spectrum{
		Bins:       make([]float64, f.NumBins()),
		BinWidthHz: f.BinWidth(),
		FFTSize:    f.size,
	}
	if len(frame) > f.size {
		frame = frame[:f.size]
	}
	if common.IsSilent(frame) {
		spectrum.Silent = true
		return spectrum
	}

	windowed := make([]float64, f.size)
	f.window.ApplyTo(windowed, frame)

	buf := make([]complex128, f.size)
	for i, v := range windowed {
		buf[i] = complex(v, 0)
	}
	f.Transform(buf)

	norm := float64(f.size)
	for k := range spectrum.Bins {
		mag := cmplx.Abs(buf[k])
		spectrum.Bins[k] = mag * mag / norm
	}

	return spectrum
}

// MagnitudeDB returns 10*log10(power+eps) for each bin of frame
func (f *FFT) MagnitudeDB(frame []float64) []float64 {
	return f.PowerSpectrum(frame).DB()
}
