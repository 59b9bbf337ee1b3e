package stats

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dimred/pkg/core"
)

var (
	ErrNotFitted       = errors.New("scaler is not fitted yet")
	ErrFeatureMismatch = errors.New("feature count differs from the fitted data")
)

// StandardScaler standardizes each column to zero mean and unit variance.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit records the population mean and standard deviation of each column.
// Constant columns get a standard deviation of 1 so they map to 0.
func (s *StandardScaler) Fit(X [][]float64) error {
	r, c, err := core.Shape(X)
	if err != nil {
		return err
	}
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X[i][j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Mean[j] = mean
		s.Std[j] = math.Sqrt(variance)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.fit = true
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(s.Mean)); err != nil {
		return nil, err
	}
	Y := core.Center(X, s.Mean)
	for _, row := range Y {
		floats.Div(row, s.Std)
	}
	return Y, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// MinMaxScaler scales each column to [0, 1].
type MinMaxScaler struct {
	Min   []float64
	Range []float64
	fit   bool
}

func NewMinMaxScaler() *MinMaxScaler { return &MinMaxScaler{} }

// Fit records the minimum and range of each column. Constant columns get a
// range of 1 so they map to 0.
func (s *MinMaxScaler) Fit(X [][]float64) error {
	r, c, err := core.Shape(X)
	if err != nil {
		return err
	}
	s.Min = make([]float64, c)
	s.Range = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X[i][j]
		}
		lo, hi := floats.Min(col), floats.Max(col)
		s.Min[j] = lo
		s.Range[j] = hi - lo
		if s.Range[j] == 0 {
			s.Range[j] = 1
		}
	}
	s.fit = true
	return nil
}

func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(s.Min)); err != nil {
		return nil, err
	}
	Y := core.Center(X, s.Min)
	for _, row := range Y {
		floats.Div(row, s.Range)
	}
	return Y, nil
}

func (s *MinMaxScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

func checkWidth(X [][]float64, want int) error {
	_, c, err := core.Shape(X)
	if err != nil {
		return err
	}
	if c != want {
		return errors.Wrapf(ErrFeatureMismatch, "got %d features, fitted on %d", c, want)
	}
	return nil
}
