package core

import (
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmpty  = errors.New("feature matrix is empty")
	ErrRagged = errors.New("feature matrix rows have different lengths")
)

// Shape returns the number of samples and features of X.
func Shape(X [][]float64) (int, int, error) {
	if len(X) == 0 || len(X[0]) == 0 {
		return 0, 0, ErrEmpty
	}
	c := len(X[0])
	for i, row := range X {
		if len(row) != c {
			return 0, 0, errors.Wrapf(ErrRagged, "row %d has %d columns, want %d", i, len(row), c)
		}
	}
	return len(X), c, nil
}

// Dense copies X into a row-major gonum matrix.
func Dense(X [][]float64) (*mat.Dense, error) {
	r, c, err := Shape(X)
	if err != nil {
		return nil, err
	}
	data := make([]float64, 0, r*c)
	for _, row := range X {
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}

// Rows copies m back into a nested slice.
func Rows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
		}
		out[i] = row
	}
	return out
}

// ColumnMeans returns the mean of every column of X.
func ColumnMeans(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	d := len(X[0])
	workers := runtime.GOMAXPROCS(0)
	sums := make([][]float64, workers)
	for i := range sums {
		sums[i] = make([]float64, d)
	}

	var wg sync.WaitGroup
	rowsPerWorker := (len(X) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end, id int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := 0; j < d; j++ {
					sums[id][j] += X[i][j]
				}
			}
		}(start, end, w)
	}
	wg.Wait()

	means := make([]float64, d)
	for j := 0; j < d; j++ {
		for w := 0; w < workers; w++ {
			means[j] += sums[w][j]
		}
		means[j] /= float64(len(X))
	}
	return means
}

// Center returns X with means subtracted from every row.
func Center(X [][]float64, means []float64) [][]float64 {
	Z := make([][]float64, len(X))
	ParallelRows(len(X), func(start, end int) {
		for i := start; i < end; i++ {
			z := make([]float64, len(means))
			for j := range means {
				z[j] = X[i][j] - means[j]
			}
			Z[i] = z
		}
	})
	return Z
}
