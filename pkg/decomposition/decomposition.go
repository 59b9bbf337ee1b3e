// Package decomposition reduces the number of features of a data set with
// principal component analysis, its kernel variant, and linear
// discriminant analysis. The factorizations themselves come from gonum;
// this package prepares the matrices and projects data.
package decomposition

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotFitted         = errors.New("transformer is not fitted yet")
	ErrFeatureMismatch   = errors.New("feature count differs from the fitted data")
	ErrComponents        = errors.New("invalid number of components")
	ErrLabelMismatch     = errors.New("number of labels differs from number of samples")
	ErrTooFewClasses     = errors.New("at least two classes are required")
	ErrTooManyComponents = errors.New("n_components cannot be larger than min(n_features, n_classes - 1)")
	ErrNoInverse         = errors.New("inverse transform was not enabled at fit time")
	ErrUnknownSolver     = errors.New("unknown solver")
	ErrFactorization     = errors.New("matrix factorization failed")
)

// Transformer is an unsupervised reducer (fit on train, transform both).
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
	FitTransform(X [][]float64) ([][]float64, error)
}

// SupervisedTransformer is a reducer that needs class labels to fit.
type SupervisedTransformer interface {
	Fit(X [][]float64, y []int) error
	Transform(X [][]float64) ([][]float64, error)
	FitTransform(X [][]float64, y []int) ([][]float64, error)
}

var (
	_ Transformer           = (*PCA)(nil)
	_ Transformer           = (*KernelPCA)(nil)
	_ SupervisedTransformer = (*LinearDiscriminantAnalysis)(nil)
)

// eigenDesc factorizes a symmetric matrix and returns its eigenvalues in
// decreasing order with the matching eigenvectors as columns.
func eigenDesc(s mat.Symmetric) ([]float64, *mat.Dense, error) {
	var es mat.EigenSym
	if ok := es.Factorize(s, true); !ok {
		return nil, nil, errors.Wrap(ErrFactorization, "symmetric eigendecomposition")
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	n := len(vals)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] > vals[order[b]] })

	r, _ := vecs.Dims()
	sorted := make([]float64, n)
	out := mat.NewDense(r, n, nil)
	for k, idx := range order {
		sorted[k] = vals[idx]
		for i := 0; i < r; i++ {
			out.Set(i, k, vecs.At(i, idx))
		}
	}
	return sorted, out, nil
}

// symmetrize returns (A + A^T) / 2 as a SymDense.
func symmetrize(a mat.Matrix) *mat.SymDense {
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (a.At(i, j)+a.At(j, i))/2)
		}
	}
	return s
}

// flipSigns negates every column whose largest-magnitude entry is negative,
// making the output deterministic across factorization backends.
func flipSigns(m *mat.Dense) {
	r, c := m.Dims()
	for j := 0; j < c; j++ {
		best, bestAbs := 0.0, -1.0
		for i := 0; i < r; i++ {
			if v := m.At(i, j); math.Abs(v) > bestAbs {
				best, bestAbs = v, math.Abs(v)
			}
		}
		if best < 0 {
			for i := 0; i < r; i++ {
				m.Set(i, j, -m.At(i, j))
			}
		}
	}
}

// firstColumns returns a copy of the first k columns of m.
func firstColumns(m mat.Matrix, k int) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, k, nil)
	out.Copy(m)
	return out
}
