package stats

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"
)

// Strategy picks the statistic an Imputer fills gaps with.
type Strategy string

const (
	Mean   Strategy = "mean"
	Median Strategy = "median"
)

var ErrUnknownStrategy = errors.New("unknown imputation strategy")

// Imputer replaces NaN entries with a per-column statistic of the observed values.
type Imputer struct {
	Strategy   Strategy
	Statistics []float64
}

func NewImputer(s Strategy) *Imputer { return &Imputer{Strategy: s} }

func (im *Imputer) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("imputer: empty input")
	}
	d := len(X[0])
	im.Statistics = make([]float64, d)
	col := make([]float64, 0, len(X))
	for j := 0; j < d; j++ {
		col = col[:0]
		for _, row := range X {
			if !math.IsNaN(row[j]) {
				col = append(col, row[j])
			}
		}
		if len(col) == 0 {
			return errors.Newf("imputer: column %d has no observed values", j)
		}
		switch im.Strategy {
		case Mean:
			im.Statistics[j] = stat.Mean(col, nil)
		case Median:
			sort.Float64s(col)
			m := len(col) / 2
			im.Statistics[j] = col[m]
			if len(col)%2 == 0 {
				im.Statistics[j] = (col[m-1] + col[m]) / 2
			}
		default:
			return errors.Wrapf(ErrUnknownStrategy, "%q", im.Strategy)
		}
	}
	return nil
}

// Transform returns a copy of X with every NaN filled in.
func (im *Imputer) Transform(X [][]float64) ([][]float64, error) {
	if im.Statistics == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(im.Statistics)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				v = im.Statistics[j]
			}
			r[j] = v
		}
		out[i] = r
	}
	return out, nil
}

func (im *Imputer) FitTransform(X [][]float64) ([][]float64, error) {
	if err := im.Fit(X); err != nil {
		return nil, err
	}
	return im.Transform(X)
}
