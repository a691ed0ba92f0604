package windowing

// Hamming tapers LPC analysis frames
type Hamming struct {
	cosineWindow
}

// NewHamming creates a Hamming window (0.54 - 0.46*cos)
func NewHamming(size int, symmetric bool) *Hamming {
	return &Hamming{cosineWindow: newCosineWindow("hamming", size, 0.54, symmetric)}
}
