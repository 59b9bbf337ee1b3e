package stats

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler(t *testing.T) {
	X := [][]float64{{1, 5}, {2, 5}, {3, 5}}
	s := NewStandardScaler()
	Y, err := s.FitTransform(X)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2, 5}, s.Mean, 1e-12)
	assert.InDelta(t, 0.816496580927726, s.Std[0], 1e-12)
	assert.Equal(t, 1.0, s.Std[1], "constant column keeps unit scale")
	assert.InDelta(t, -1.224744871391589, Y[0][0], 1e-12)
	assert.InDelta(t, 0, Y[1][0], 1e-12)
	assert.Equal(t, 0.0, Y[2][1])

	// the input is not modified
	assert.Equal(t, 1.0, X[0][0])
}

func TestStandardScalerErrors(t *testing.T) {
	s := NewStandardScaler()
	_, err := s.Transform([][]float64{{1}})
	assert.True(t, errors.Is(err, ErrNotFitted))

	require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))
	_, err = s.Transform([][]float64{{1}})
	assert.True(t, errors.Is(err, ErrFeatureMismatch))
}

func TestMinMaxScaler(t *testing.T) {
	X := [][]float64{{0, 10, 3}, {5, 20, 3}, {10, 30, 3}}
	s := NewMinMaxScaler()
	Y, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0, 0}, {0.5, 0.5, 0}, {1, 1, 0}}, Y)

	out, err := s.Transform([][]float64{{20, 0, 4}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -0.5, 1}, out[0])
}

func TestDescribe(t *testing.T) {
	sum, err := Describe([][]float64{{1, -1}, {2, -2}, {3, -3}})
	require.NoError(t, err)
	require.Len(t, sum, 2)
	assert.InDelta(t, 2, sum[0].Mean, 1e-12)
	assert.InDelta(t, 1, sum[0].Std, 1e-12)
	assert.Equal(t, 1.0, sum[0].Min)
	assert.Equal(t, 3.0, sum[0].Max)
	assert.InDelta(t, -2, sum[1].Mean, 1e-12)
	assert.Equal(t, -3.0, sum[1].Min)
	assert.Equal(t, -1.0, sum[1].Max)
}
