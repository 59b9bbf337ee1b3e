// Package kernel computes similarity matrices for kernel methods.
package kernel

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"dimred/pkg/core"
)

// Kind names a kernel function.
type Kind string

const (
	Linear  Kind = "linear"
	RBF     Kind = "rbf"
	Poly    Kind = "poly"
	Sigmoid Kind = "sigmoid"
	Cosine  Kind = "cosine"
)

var (
	ErrUnknownKernel   = errors.New("unknown kernel")
	ErrFeatureMismatch = errors.New("kernel inputs have different feature counts")
)

// Parse maps a kernel name to its Kind.
func Parse(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case Linear, RBF, Poly, Sigmoid, Cosine:
		return k, nil
	}
	return "", errors.Wrapf(ErrUnknownKernel, "%q", name)
}

// Params configures a kernel. A zero Gamma means 1/n_features.
type Params struct {
	Kind   Kind
	Gamma  float64
	Degree float64
	Coef0  float64
}

// DefaultParams returns the rbf kernel with degree 3 and coef0 1 for poly/sigmoid.
func DefaultParams() Params {
	return Params{Kind: RBF, Degree: 3, Coef0: 1}
}

// Func returns k(x, y) for the given parameters and feature count.
func (p Params) Func(nFeatures int) (func(x, y []float64) float64, error) {
	gamma := p.Gamma
	if gamma == 0 && nFeatures > 0 {
		gamma = 1 / float64(nFeatures)
	}
	switch p.Kind {
	case Linear:
		return floats.Dot, nil
	case RBF:
		return func(x, y []float64) float64 {
			d := floats.Distance(x, y, 2)
			return math.Exp(-gamma * d * d)
		}, nil
	case Poly:
		return func(x, y []float64) float64 {
			return math.Pow(gamma*floats.Dot(x, y)+p.Coef0, p.Degree)
		}, nil
	case Sigmoid:
		return func(x, y []float64) float64 {
			return math.Tanh(gamma*floats.Dot(x, y) + p.Coef0)
		}, nil
	case Cosine:
		return func(x, y []float64) float64 {
			nx, ny := floats.Norm(x, 2), floats.Norm(y, 2)
			if nx == 0 || ny == 0 {
				return 0
			}
			return floats.Dot(x, y) / (nx * ny)
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknownKernel, "%q", p.Kind)
}

// Pairwise returns the len(X) x len(Y) matrix K[i][j] = k(X[i], Y[j]).
// Rows are filled concurrently.
func Pairwise(X, Y [][]float64, p Params) (*mat.Dense, error) {
	nx, dx, err := core.Shape(X)
	if err != nil {
		return nil, err
	}
	ny, dy, err := core.Shape(Y)
	if err != nil {
		return nil, err
	}
	if dx != dy {
		return nil, errors.Wrapf(ErrFeatureMismatch, "%d vs %d", dx, dy)
	}
	k, err := p.Func(dx)
	if err != nil {
		return nil, err
	}

	K := mat.NewDense(nx, ny, nil)
	core.ParallelRows(nx, func(start, end int) {
		for i := start; i < end; i++ {
			row := K.RawRowView(i)
			for j := 0; j < ny; j++ {
				row[j] = k(X[i], Y[j])
			}
		}
	})
	return K, nil
}
