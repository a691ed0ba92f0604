package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultOutlierK is Tukey's fence multiplier
const DefaultOutlierK = 1.5

// QuartileInfo contains quartile-specific information
type QuartileInfo struct {
	Q1  float64 `json:"q1"`  // First quartile (25th percentile)
	Q2  float64 `json:"q2"`  // Second quartile (median)
	Q3  float64 `json:"q3"`  // Third quartile (75th percentile)
	IQR float64 `json:"iqr"` // Interquartile range (Q3 - Q1)
}

// Quartiles computes Q1, median and Q3 with gonum's empirical quantile
func Quartiles(data []float64) QuartileInfo {
	if len(data) == 0 {
		return QuartileInfo{}
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	q := QuartileInfo{
		Q1: stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q2: stat.Quantile(0.50, stat.Empirical, sorted, nil),
		Q3: stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
	q.IQR = q.Q3 - q.Q1
	return q
}

// FilterOutliersIQR drops values outside [Q1 - k*IQR, Q3 + k*IQR].
// Fewer than four values are returned unchanged.
func FilterOutliersIQR(data []float64, k float64) []float64 {
	if len(data) < 4 {
		kept := make([]float64, len(data))
		copy(kept, data)
		return kept
	}

	q := Quartiles(data)
	lower := q.Q1 - k*q.IQR
	upper := q.Q3 + k*q.IQR

	kept := make([]float64, 0, len(data))
	for _, v := range data {
		if v >= lower && v <= upper {
			kept = append(kept, v)
		}
	}
	return kept
}
