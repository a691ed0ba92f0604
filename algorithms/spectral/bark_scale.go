package spectral

import (
	"math"
)

// NumBarkBands is the number of critical bands covering the audible range
const NumBarkBands = 24

var criticalBandEdges = []float64{
	0, 100, 200, 300, 400, 510, 630, 770, 920, 1080,
	1270, 1480, 1720, 2000, 2320, 2700, 3150, 3700, 4400,
	5300, 6400, 7700, 9500, 12000, 15500,
}

var barkBandCenters = []float64{
	50, 150, 250, 350, 450, 570, 700, 840, 1000, 1170,
	1370, 1600, 1850, 2150, 2500, 2900, 3400, 4000, 4800,
	5800, 7000, 8500, 10500, 13500,
}

// HzToBark converts frequency in Hz to Bark using Zwicker & Terhardt (1980)
func HzToBark(hz float64) float64 {
	return 13.0*math.Atan(0.00076*hz) + 3.5*math.Atan((hz/7500.0)*(hz/7500.0))
}

// BarkToHz inverts the Traunmüller (1990) approximation
func BarkToHz(bark float64) float64 {
	return 1960.0 * (bark + 0.53) / (26.28 - bark)
}

// CriticalBandEdges returns the 25 band edge frequencies in Hz
func CriticalBandEdges() []float64 {
	edges := make([]float64, len(criticalBandEdges))
	copy(edges, criticalBandEdges)
	return edges
}

// BarkBandCenters returns the centre frequency of each of the 24 bands
func BarkBandCenters() []float64 {
	centers := make([]float64, len(barkBandCenters))
	copy(centers, barkBandCenters)
	return centers
}

// BarkBands maps FFT bins of one transform size onto critical bands.
// The mapping is computed once and read concurrently afterwards.
type BarkBands struct {
	numBands  int
	binToBand []int
}

// NewBarkBands builds the bin-to-band table for spectra produced by fft
func NewBarkBands(fft *FFT) *BarkBands {
	b := &BarkBands{
		numBands:  NumBarkBands,
		binToBand: make([]int, fft.NumBins()),
	}
	for k := range b.binToBand {
		band := int(HzToBark(float64(k) * fft.BinWidth()))
		b.binToBand[k] = min(max(band, 0), b.numBands-1)
	}
	return b
}

// NumBands returns the band count
func (b *BarkBands) NumBands() int {
	return b.numBands
}

// Band returns the critical band of FFT bin k
func (b *BarkBands) Band(k int) int {
	return b.binToBand[k]
}

// Energies sums the spectrum's power per critical band
func (b *BarkBands) Energies(spectrum *Spectrum) []float64 {
	energies := make([]float64, b.numBands)
	for k, p := range spectrum.Bins {
		if k < len(b.binToBand) {
			energies[b.binToBand[k]] += p
		}
	}
	return energies
}
