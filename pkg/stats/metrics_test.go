package stats

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]int{0, 1, 1, 2}, []int{0, 1, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, 0.75, acc)

	_, err = Accuracy([]int{0}, []int{0, 1})
	assert.Error(t, err)
}

func TestConfusionMatrix(t *testing.T) {
	cm, err := ConfusionMatrix([]int{2, 0, 2, 2, 0, 1}, []int{0, 0, 2, 2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, cm.Labels)
	assert.Equal(t, [][]int{
		{2, 0, 0},
		{0, 0, 1},
		{1, 0, 2},
	}, cm.Counts)
}

func TestImputer(t *testing.T) {
	nan := math.NaN()
	X := [][]float64{{1, nan}, {nan, 4}, {3, 10}, {4, 6}}

	mean := NewImputer(Mean)
	out, err := mean.FitTransform(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{8.0 / 3, 20.0 / 3}, mean.Statistics, 1e-12)
	assert.InDelta(t, 8.0/3, out[1][0], 1e-12)
	assert.True(t, math.IsNaN(X[1][0]), "input is left untouched")

	median := NewImputer(Median)
	out, err = median.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, median.Statistics)
	assert.Equal(t, []float64{1, 6}, out[0])
}

func TestImputerErrors(t *testing.T) {
	_, err := NewImputer(Mean).Transform([][]float64{{1}})
	assert.True(t, errors.Is(err, ErrNotFitted))

	err = NewImputer("mode").Fit([][]float64{{1}})
	assert.True(t, errors.Is(err, ErrUnknownStrategy))

	err = NewImputer(Mean).Fit([][]float64{{math.NaN(), 1}})
	assert.Error(t, err)
}
