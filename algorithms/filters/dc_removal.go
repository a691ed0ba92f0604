package filters

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// DCRemoval is a one-pole DC blocker, y[n] = x[n] - x[n-1] + R*y[n-1].
// It strips the constant offset cheap recorders leave on a clip.
//
// References:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type DCRemoval struct {
	poleLocation float64

	x1 float64
	y1 float64
}

// NewDCRemoval creates a blocker with its -3 dB point near cutoffHz,
// using R = 1 - 2*pi*fc/fs.
func NewDCRemoval(sampleRate int, cutoffHz float64) (*DCRemoval, error) {
	if err := common.RequirePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if cutoffHz <= 0 || cutoffHz >= float64(sampleRate)/2 {
		return nil, common.NewConfigError("dc_cutoff_hz", cutoffHz, "must be between 0 and Nyquist")
	}

	pole := common.Clamp(1.0-2.0*math.Pi*cutoffHz/float64(sampleRate), 0.001, 0.999)
	return &DCRemoval{poleLocation: pole}, nil
}

// Process filters one sample
func (dc *DCRemoval) Process(input float64) float64 {
	output := input - dc.x1 + dc.poleLocation*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}

// ProcessBuffer filters a block, continuing from the previous block
func (dc *DCRemoval) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = dc.Process(sample)
	}
	return output
}

// Reset clears the filter state
func (dc *DCRemoval) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}

// PoleLocation returns R
func (dc *DCRemoval) PoleLocation() float64 {
	return dc.poleLocation
}
