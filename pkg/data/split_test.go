package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSplit(t *testing.T) {
	X := make([][]float64, 10)
	y := make([]int, 10)
	for i := range X {
		X[i] = []float64{float64(i)}
		y[i] = i
	}

	s, err := TrainTestSplit(X, y, 0.3, 7)
	require.NoError(t, err)
	assert.Len(t, s.XTest, 3)
	assert.Len(t, s.XTrain, 7)

	// labels travel with their rows, and every row lands exactly once
	seen := map[int]bool{}
	for i, row := range s.XTrain {
		assert.Equal(t, float64(s.YTrain[i]), row[0])
		seen[s.YTrain[i]] = true
	}
	for i, row := range s.XTest {
		assert.Equal(t, float64(s.YTest[i]), row[0])
		seen[s.YTest[i]] = true
	}
	assert.Len(t, seen, 10)

	again, err := TrainTestSplit(X, y, 0.3, 7)
	require.NoError(t, err)
	assert.Equal(t, s.YTest, again.YTest, "same seed, same split")
}

func TestTrainTestSplitErrors(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	_, err := TrainTestSplit(X, []int{1}, 0.5, 1)
	assert.Error(t, err)
	_, err = TrainTestSplit(X, nil, 1.5, 1)
	assert.Error(t, err)
	_, err = TrainTestSplit(X, nil, 0.01, 1)
	assert.Error(t, err)
}
