package stats

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Accuracy is the fraction of predictions equal to the true label.
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, errors.Newf("accuracy: %d labels, %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue)), nil
}

// Confusion counts predictions per (true, predicted) label pair.
type Confusion struct {
	Labels []int   // sorted union of true and predicted labels
	Counts [][]int // Counts[i][j]: true Labels[i] predicted as Labels[j]
}

func ConfusionMatrix(yTrue, yPred []int) (*Confusion, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.Newf("confusion matrix: %d labels, %d predictions", len(yTrue), len(yPred))
	}
	index := make(map[int]int)
	for _, ys := range [][]int{yTrue, yPred} {
		for _, y := range ys {
			index[y] = 0
		}
	}
	labels := make([]int, 0, len(index))
	for y := range index {
		labels = append(labels, y)
	}
	sort.Ints(labels)
	for i, y := range labels {
		index[y] = i
	}

	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		counts[index[yTrue[i]]][index[yPred[i]]]++
	}
	return &Confusion{Labels: labels, Counts: counts}, nil
}
