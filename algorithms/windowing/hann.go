package windowing

// Hann is the raised-cosine window used by the transform engine
type Hann struct {
	cosineWindow
}

// NewHann creates a Hann window. The symmetric form (N-1 denominator)
// is what the spectral analyzers use.
func NewHann(size int, symmetric bool) *Hann {
	return &Hann{cosineWindow: newCosineWindow("hann", size, 0.5, symmetric)}
}
