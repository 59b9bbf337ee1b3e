package decomposition

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"dimred/pkg/core"
)

// PCA projects data onto the top K eigenvectors of its covariance matrix.
type PCA struct {
	K int

	Means                  []float64
	Components             [][]float64 // K x d, each a unit vector
	ExplainedVariance      []float64   // eigenvalues of the sample covariance
	ExplainedVarianceRatio []float64
}

// NewPCA creates and returns a new PCA model keeping k components.
func NewPCA(k int) *PCA {
	return &PCA{K: k}
}

// Fit computes the principal components of X.
func (pca *PCA) Fit(X [][]float64) error {
	n, d, err := core.Shape(X)
	if err != nil {
		return err
	}
	if pca.K < 1 || pca.K > min(n, d) {
		return errors.Wrapf(ErrComponents, "pca: k=%d with %d samples and %d features", pca.K, n, d)
	}
	if n < 2 {
		return errors.Wrap(ErrComponents, "pca: need at least two samples")
	}

	dense, err := core.Dense(X)
	if err != nil {
		return err
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, dense, nil)

	vals, vecs, err := eigenDesc(&cov)
	if err != nil {
		return errors.Wrap(err, "pca")
	}
	flipSigns(vecs)

	total := floats.Sum(vals)
	pca.Means = core.ColumnMeans(X)
	pca.Components = make([][]float64, pca.K)
	pca.ExplainedVariance = make([]float64, pca.K)
	pca.ExplainedVarianceRatio = make([]float64, pca.K)
	for k := 0; k < pca.K; k++ {
		pca.Components[k] = mat.Col(nil, k, vecs)
		pca.ExplainedVariance[k] = max(vals[k], 0)
		if total > 0 {
			pca.ExplainedVarianceRatio[k] = pca.ExplainedVariance[k] / total
		}
	}

	log.Debug().Int("samples", n).Int("features", d).Int("components", pca.K).
		Floats64("ratio", pca.ExplainedVarianceRatio).Msg("PCA fitted")
	return nil
}

// Transform projects the input data onto the principal components.
func (pca *PCA) Transform(X [][]float64) ([][]float64, error) {
	if pca.Components == nil {
		return nil, ErrNotFitted
	}
	_, d, err := core.Shape(X)
	if err != nil {
		return nil, err
	}
	if d != len(pca.Means) {
		return nil, errors.Wrapf(ErrFeatureMismatch, "pca: got %d features, fitted on %d", d, len(pca.Means))
	}

	Z := core.Center(X, pca.Means)
	transformed := make([][]float64, len(Z))
	core.ParallelRows(len(Z), func(start, end int) {
		for i := start; i < end; i++ {
			t := make([]float64, pca.K)
			for k, c := range pca.Components {
				t[k] = floats.Dot(Z[i], c)
			}
			transformed[i] = t
		}
	})
	return transformed, nil
}

// FitTransform fits on X and returns its projection.
func (pca *PCA) FitTransform(X [][]float64) ([][]float64, error) {
	if err := pca.Fit(X); err != nil {
		return nil, err
	}
	return pca.Transform(X)
}

// InverseTransform maps projected data back to the original feature space.
func (pca *PCA) InverseTransform(Z [][]float64) ([][]float64, error) {
	if pca.Components == nil {
		return nil, ErrNotFitted
	}
	_, k, err := core.Shape(Z)
	if err != nil {
		return nil, err
	}
	if k != pca.K {
		return nil, errors.Wrapf(ErrFeatureMismatch, "pca: got %d components, want %d", k, pca.K)
	}
	out := make([][]float64, len(Z))
	for i, z := range Z {
		x := make([]float64, len(pca.Means))
		copy(x, pca.Means)
		for c, w := range z {
			floats.AddScaled(x, w, pca.Components[c])
		}
		out[i] = x
	}
	return out, nil
}
