package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLinearRegressionExactLine(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 3, 5, 7, 9}

	fit := LinearRegression(x, y)
	assert.InDelta(t, 2.0, fit.Slope, 1e-12)
	assert.InDelta(t, 1.0, fit.Intercept, 1e-12)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-12)
}

func TestLinearRegressionDegenerate(t *testing.T) {
	assert.Equal(t, LinearFit{}, LinearRegression([]float64{1}, []float64{2}))
	assert.Equal(t, LinearFit{}, LinearRegression([]float64{1, 2}, []float64{2}))
}

func TestPolynomialRegressionRecoversQuadratic(t *testing.T) {
	x := make([]float64, 20)
	y := make([]float64, 20)
	for i := range x {
		x[i] = float64(i) / 4
		y[i] = 0.5 - 1.5*x[i] + 2*x[i]*x[i]
	}

	fit, err := PolynomialRegression(x, y, 2)
	require.NoError(t, err)
	require.False(t, fit.Degenerate)
	require.Len(t, fit.Coefficients, 3)
	assert.InDelta(t, 0.5, fit.Coefficients[0], 1e-8)
	assert.InDelta(t, -1.5, fit.Coefficients[1], 1e-8)
	assert.InDelta(t, 2.0, fit.Coefficients[2], 1e-8)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-10)
	assert.InDelta(t, 0.5-3+8, fit.Evaluate(2), 1e-8)
}

func TestPolynomialRegressionMatchesLeastSquares(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n, degree = 40, 3

	x := make([]float64, n)
	y := make([]float64, n)
	vandermonde := mat.NewDense(n, degree+1, nil)
	for i := range n {
		x[i] = float64(i)/float64(n) - 0.5
		y[i] = math.Sin(3*x[i]) + 0.05*rng.NormFloat64()
		for k := 0; k <= degree; k++ {
			vandermonde.Set(i, k, math.Pow(x[i], float64(k)))
		}
	}

	var want mat.VecDense
	require.NoError(t, want.SolveVec(vandermonde, mat.NewVecDense(n, y)))

	fit, err := PolynomialRegression(x, y, degree)
	require.NoError(t, err)
	for k := 0; k <= degree; k++ {
		assert.InDelta(t, want.AtVec(k), fit.Coefficients[k], 1e-6, "coefficient %d", k)
	}
	assert.Greater(t, fit.RSquared, 0.9)
}

func TestPolynomialRegressionDegenerateInput(t *testing.T) {
	fit, err := PolynomialRegression([]float64{1, 2}, []float64{1, 2}, 2)
	require.NoError(t, err)
	assert.True(t, fit.Degenerate)
	assert.Equal(t, []float64{0, 0, 0}, fit.Coefficients)

	// identical x values make the normal equations singular
	fit, err = PolynomialRegression([]float64{1, 1, 1, 1}, []float64{1, 2, 3, 4}, 1)
	require.NoError(t, err)
	assert.True(t, fit.Degenerate)
}

func TestPolynomialRegressionRejectsNegativeDegree(t *testing.T) {
	_, err := PolynomialRegression([]float64{1}, []float64{1}, -1)
	require.Error(t, err)
	assert.True(t, common.IsConfigError(err))
	assert.Contains(t, err.Error(), "degree")
}
