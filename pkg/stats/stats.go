package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dimred/pkg/core"
)

// Summary describes one feature column.
type Summary struct {
	Mean, Std, Min, Max float64
}

// Describe returns a Summary for each column of X. Std is the sample
// standard deviation.
func Describe(X [][]float64) ([]Summary, error) {
	r, c, err := core.Shape(X)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		out[j] = Summary{Mean: mean, Std: std, Min: floats.Min(col), Max: floats.Max(col)}
	}
	return out, nil
}
