package stats

import (
	"math"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"gonum.org/v1/gonum/stat"
)

// LinearFit is a least-squares trend line y = Intercept + Slope*x
type LinearFit struct {
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
	RSquared  float64 `json:"r_squared" yaml:"r_squared"`
}

// PolynomialFit holds coefficients in ascending power order
type PolynomialFit struct {
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	RSquared     float64   `json:"r_squared" yaml:"r_squared"`

	// Degenerate marks a fit that could not be computed (too few points or
	// a singular system); coefficients are all zero.
	Degenerate bool `json:"degenerate" yaml:"degenerate"`
}

// Evaluate returns the polynomial value at x
func (p PolynomialFit) Evaluate(x float64) float64 {
	y := 0.0
	for i := len(p.Coefficients) - 1; i >= 0; i-- {
		y = y*x + p.Coefficients[i]
	}
	return y
}

// LinearRegression fits a trend line with gonum. Fewer than two points or
// mismatched lengths return a zero fit.
func LinearRegression(x, y []float64) LinearFit {
	if len(x) != len(y) || len(x) < 2 {
		return LinearFit{}
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0.0
	}

	return LinearFit{Slope: beta, Intercept: alpha, RSquared: r2}
}

// PolynomialRegression fits a polynomial of the given degree by solving the
// normal equations with Gauss-Jordan elimination.
func PolynomialRegression(x, y []float64, degree int) (PolynomialFit, error) {
	if degree < 0 {
		return PolynomialFit{}, common.NewConfigError("degree", degree, "must be non-negative")
	}

	terms := degree + 1
	degenerate := PolynomialFit{Coefficients: make([]float64, terms), Degenerate: true}
	if len(x) != len(y) || len(x) < terms {
		return degenerate, nil
	}

	// powerSums[k] = sum x^k for k = 0..2*degree
	powerSums := make([]float64, 2*degree+1)
	rhs := make([]float64, terms)
	for i := range x {
		xp := 1.0
		for k := range powerSums {
			powerSums[k] += xp
			if k < terms {
				rhs[k] += xp * y[i]
			}
			xp *= x[i]
		}
	}

	// Augmented matrix [A | b]
	aug := make([][]float64, terms)
	for r := range terms {
		aug[r] = make([]float64, terms+1)
		for c := range terms {
			aug[r][c] = powerSums[r+c]
		}
		aug[r][terms] = rhs[r]
	}

	coefficients, ok := gaussJordan(aug)
	if !ok {
		return degenerate, nil
	}

	fit := PolynomialFit{Coefficients: coefficients}
	fit.RSquared = rSquared(x, y, fit.Evaluate)
	return fit, nil
}

// gaussJordan reduces an n x (n+1) augmented matrix in place with partial
// pivoting and returns the solution column.
func gaussJordan(aug [][]float64) ([]float64, bool) {
	n := len(aug)
	for col := range n {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return nil, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		scale := aug[col][col]
		for c := col; c <= n; c++ {
			aug[col][c] /= scale
		}

		for r := range n {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	solution := make([]float64, n)
	for r := range n {
		solution[r] = aug[r][n]
	}
	return solution, true
}

func rSquared(x, y []float64, predict func(float64) float64) float64 {
	mean := stat.Mean(y, nil)
	ssTotal, ssResidual := 0.0, 0.0
	for i := range x {
		d := y[i] - mean
		e := y[i] - predict(x[i])
		ssTotal += d * d
		ssResidual += e * e
	}
	if ssTotal < common.Epsilon {
		if ssResidual < common.Epsilon {
			return 1.0
		}
		return 0.0
	}
	return 1.0 - ssResidual/ssTotal
}
