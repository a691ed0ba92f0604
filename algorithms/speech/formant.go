package speech

import (
	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/filters"
	"github.com/RyanBlaney/sonido-voz/algorithms/windowing"
	"gonum.org/v1/gonum/floats"
)

// FormantSet holds up to four formant frequencies in Hz, ascending
type FormantSet []float64

// Formant analyzer defaults
const (
	DefaultFormantFrameSize = 1024
	DefaultFormantHopSize   = 512
	DefaultResponsePoints   = 512
	DefaultPeakRatio        = 1.5
	MaxFormants             = 4
	MinFormantFrequency     = 50.0
)

// FormantAnalyzer extracts vocal tract resonances (formants) from speech
// by peak picking the LPC envelope. F1 and F2 primarily determine vowel
// identity; the set as a whole characterizes the speaker.
type FormantAnalyzer struct {
	sampleRate     int
	frameSize      int
	hopSize        int
	responsePoints int
	peakRatio      float64
	preEmphasis    float64

	lpc    *LPCAnalyzer
	window *windowing.Hamming
}

// FormantStatistics describes formants across a clip
type FormantStatistics struct {
	// Best is the set from the highest-energy frame
	Best FormantSet `json:"best" yaml:"best"`
	// Median is the per-slot median over frames that produced that slot
	Median []float64 `json:"median" yaml:"median"`
	Frames int       `json:"frames" yaml:"frames"`
}

// NewFormantAnalyzer creates an order-12 analyzer with 1024-sample frames
func NewFormantAnalyzer(sampleRate int) (*FormantAnalyzer, error) {
	return NewFormantAnalyzerWithParams(sampleRate, DefaultFormantFrameSize, DefaultFormantHopSize, DefaultLPCOrder)
}

// NewFormantAnalyzerWithParams creates a formant analyzer with custom framing
func NewFormantAnalyzerWithParams(sampleRate, frameSize, hopSize, lpcOrder int) (*FormantAnalyzer, error) {
	if err := common.RequirePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.RequirePositive("formant_frame_size", frameSize); err != nil {
		return nil, err
	}
	if err := common.RequirePositive("formant_hop_size", hopSize); err != nil {
		return nil, err
	}
	lpc, err := NewLPCAnalyzer(lpcOrder)
	if err != nil {
		return nil, err
	}

	return &FormantAnalyzer{
		sampleRate:     sampleRate,
		frameSize:      frameSize,
		hopSize:        hopSize,
		responsePoints: DefaultResponsePoints,
		peakRatio:      DefaultPeakRatio,
		preEmphasis:    filters.DefaultPreEmphasis,
		lpc:            lpc,
		window:         windowing.NewHamming(frameSize, true),
	}, nil
}

// SetPreEmphasis changes the pre-emphasis coefficient; 0 disables it
func (f *FormantAnalyzer) SetPreEmphasis(coefficient float64) error {
	if _, err := filters.NewPreEmphasis(coefficient); err != nil {
		return err
	}
	f.preEmphasis = coefficient
	return nil
}

// preprocess applies pre-emphasis and the Hamming window
func (f *FormantAnalyzer) preprocess(frame []float64) []float64 {
	emphasized := filters.ApplyPreEmphasis(frame, f.preEmphasis)
	if len(emphasized) == f.window.Size() {
		return f.window.Apply(emphasized)
	}
	return windowing.NewHamming(len(emphasized), true).Apply(emphasized)
}

// AnalyzeFrame returns the formants of a single frame. Silent frames and
// frames too short to fit the predictor return an empty set.
func (f *FormantAnalyzer) AnalyzeFrame(frame []float64) FormantSet {
	if len(frame) <= f.lpc.Order() || common.IsSilent(frame) {
		return FormantSet{}
	}

	coeffs := f.lpc.Coefficients(f.preprocess(frame))
	freqs, response := FrequencyResponse(coeffs, f.sampleRate, f.responsePoints)

	formants := FormantSet{}
	for i := 1; i < len(response)-1 && len(formants) < MaxFormants; i++ {
		if response[i] <= response[i-1] || response[i] <= response[i+1] {
			continue
		}
		neighbours := (response[i-1] + response[i+1]) / 2
		if response[i] > f.peakRatio*neighbours && freqs[i] >= MinFormantFrequency {
			formants = append(formants, freqs[i])
		}
	}
	return formants
}

// AnalyzeFrames returns the formant set of every hop-spaced frame
func (f *FormantAnalyzer) AnalyzeFrames(samples []float64) []FormantSet {
	numFrames := common.NumFrames(len(samples), f.frameSize, f.hopSize)
	sets := make([]FormantSet, numFrames)
	for i := range numFrames {
		sets[i] = f.AnalyzeFrame(common.Frame(samples, i, f.frameSize, f.hopSize))
	}
	return sets
}

// AnalyzeClip returns the formants of the highest-energy frame of samples
func (f *FormantAnalyzer) AnalyzeClip(samples []float64) FormantSet {
	return f.Statistics(samples).Best
}

// Statistics analyzes every frame and reports the highest-energy frame's
// set along with per-slot medians.
func (f *FormantAnalyzer) Statistics(samples []float64) FormantStatistics {
	numFrames := common.NumFrames(len(samples), f.frameSize, f.hopSize)
	result := FormantStatistics{Best: FormantSet{}, Frames: numFrames}
	if numFrames == 0 {
		return result
	}

	bestEnergy := 0.0
	slots := make([][]float64, MaxFormants)
	for i := range numFrames {
		frame := common.Frame(samples, i, f.frameSize, f.hopSize)
		set := f.AnalyzeFrame(frame)
		for slot, freq := range set {
			slots[slot] = append(slots[slot], freq)
		}

		if energy := floats.Dot(frame, frame); energy > bestEnergy {
			bestEnergy = energy
			result.Best = set
		}
	}

	for _, values := range slots {
		if len(values) == 0 {
			break
		}
		result.Median = append(result.Median, common.Median(values))
	}
	return result
}
