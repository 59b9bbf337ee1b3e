package core

import (
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	r, c, err := Shape([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)

	_, _, err = Shape(nil)
	assert.True(t, errors.Is(err, ErrEmpty))

	_, _, err = Shape([][]float64{{1, 2}, {3}})
	assert.True(t, errors.Is(err, ErrRagged))
}

func TestDenseRoundTrip(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	m, err := Dense(X)
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, m.At(1, 1))
	assert.Equal(t, X, Rows(m))

	// Dense copies, so the source stays untouched.
	m.Set(0, 0, 100)
	assert.Equal(t, 1.0, X[0][0])
}

func TestColumnMeansAndCenter(t *testing.T) {
	X := [][]float64{{1, 10}, {3, 20}, {5, 30}}
	means := ColumnMeans(X)
	assert.InDeltaSlice(t, []float64{3, 20}, means, 1e-12)

	Z := Center(X, means)
	assert.Equal(t, [][]float64{{-2, -10}, {0, 0}, {2, 10}}, Z)
}

func TestParallelRowsCoversEveryRow(t *testing.T) {
	const n = 1037
	seen := make([]int32, n)
	var calls atomic.Int32
	ParallelRows(n, func(start, end int) {
		calls.Add(1)
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})
	for i, v := range seen {
		require.Equal(t, int32(1), v, "row %d", i)
	}
	assert.Positive(t, calls.Load())

	ParallelRows(0, func(int, int) { t.Fatal("called for empty range") })
}
