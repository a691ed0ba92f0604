package spectral

import (
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// STFT slides a transform engine across a signal at a fixed hop
type STFT struct {
	fft     *FFT
	hopSize int
}

// NewSTFT creates a short-time transform with frames of fft.Size() samples
func NewSTFT(fft *FFT, hopSize int) (*STFT, error) {
	if fft == nil {
		return nil, common.NewConfigError("fft", nil, "must not be nil")
	}
	if err := common.RequirePositive("hop_size", hopSize); err != nil {
		return nil, err
	}
	return &STFT{fft: fft, hopSize: hopSize}, nil
}

// FFT returns the underlying transform engine
func (s *STFT) FFT() *FFT {
	return s.fft
}

// HopSize returns the distance between frame starts in samples
func (s *STFT) HopSize() int {
	return s.hopSize
}

// FrameRate returns the number of frames per second of audio
func (s *STFT) FrameRate() float64 {
	return float64(s.fft.SampleRate()) / float64(s.hopSize)
}

// NumFrames returns how many spectra Frames would produce for length samples
func (s *STFT) NumFrames(length int) int {
	return common.NumFrames(length, s.fft.Size(), s.hopSize)
}

// Each computes spectra frame by frame and hands them to fn in order.
// Returning false from fn stops the iteration.
func (s *STFT) Each(signal []float64, fn func(index int, spectrum *Spectrum) bool) {
	numFrames := s.NumFrames(len(signal))
	for i := range numFrames {
		frame := common.Frame(signal, i, s.fft.Size(), s.hopSize)
		if !fn(i, s.fft.PowerSpectrum(frame)) {
			return
		}
	}
}

// Frames computes every frame's spectrum. Frames are independent, so the
// work is spread over a worker pool and gathered by frame index.
func (s *STFT) Frames(signal []float64) []*Spectrum {
	numFrames := s.NumFrames(len(signal))
	spectra := make([]*Spectrum, numFrames)
	if numFrames == 0 {
		return spectra
	}

	jobs := make(chan int, numFrames)
	var wg sync.WaitGroup

	for range s.getOptimalWorkerCount(numFrames) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				frame := common.Frame(signal, i, s.fft.Size(), s.hopSize)
				spectra[i] = s.fft.PowerSpectrum(frame)
			}
		}()
	}

	for i := range numFrames {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return spectra
}

// getOptimalWorkerCount determines the number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}
	if numFrames < 1000 {
		return min(numCPU, 8)
	}
	return numCPU
}
