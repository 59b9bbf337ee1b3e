package data

import (
	"math/rand"

	"github.com/cockroachdb/errors"
)

// Split holds a train/test partition of a labelled matrix.
type Split struct {
	XTrain, XTest [][]float64
	YTrain, YTest []int
}

// TrainTestSplit shuffles the rows with seed and holds out round(n*testRatio)
// of them for testing. Rows are shared with X, not copied.
func TrainTestSplit(X [][]float64, y []int, testRatio float64, seed int64) (*Split, error) {
	n := len(X)
	if y != nil && len(y) != n {
		return nil, errors.Newf("split: %d labels for %d rows", len(y), n)
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, errors.Newf("split: test ratio %g outside (0, 1)", testRatio)
	}
	nTest := int(float64(n)*testRatio + 0.5)
	if nTest == 0 || nTest == n {
		return nil, errors.Newf("split: %d rows cannot be split at %g", n, testRatio)
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)
	s := &Split{}
	for i, idx := range indices {
		if i < nTest {
			s.XTest = append(s.XTest, X[idx])
			if y != nil {
				s.YTest = append(s.YTest, y[idx])
			}
		} else {
			s.XTrain = append(s.XTrain, X[idx])
			if y != nil {
				s.YTrain = append(s.YTrain, y[idx])
			}
		}
	}
	return s, nil
}
